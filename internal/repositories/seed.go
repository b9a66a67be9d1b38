package repositories

import (
	"fmt"
	"time"

	"github.com/maxaizer/jobmarket/internal/domain/models"
)

// Demo accounts usable with the local auth provider. They are bound to the
// seeded worker and employer listings so the inbox has data after login.
var DemoAccounts = []struct {
	Identity models.Identity
	Password string
}{
	{
		Identity: models.Identity{ID: "worker1", Name: "Raj Kumar", Email: "worker@example.com",
			Role: models.RoleWorker, Phone: "+91 9876543210"},
		Password: "password",
	},
	{
		Identity: models.Identity{ID: "emp1", Name: "Anita Sharma", Email: "employer@example.com",
			Role: models.RoleEmployer, Phone: "+91 9876543220"},
		Password: "password",
	},
}

func date(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func rating(v float64) *float64 {
	return &v
}

func seedJobs() []models.Job {
	monthly := func(min, max int) *models.Salary {
		return &models.Salary{Min: min, Max: max, Period: models.Monthly}
	}

	return []models.Job{
		{
			ID:    "job1",
			Title: "Skilled Plumber Needed",
			Description: "We are looking for an experienced plumber for our residential construction project. " +
				"Must have at least 5 years of experience in plumbing installation and repairs.",
			SkillsRequired: []string{"Plumbing", "Pipe Fitting", "Water Heater Installation"},
			Location:       models.Location{City: "Mumbai", State: "Maharashtra"},
			Salary:         monthly(20000, 30000),
			EmployerID:     "emp1",
			EmployerName:   "BuildRight Construction",
			EmployerLogo:   "https://picsum.photos/seed/buildright/200",
			CreatedAt:      date(2023, time.May, 15, 0, 0),
			Status:         models.JobOpen,
		},
		{
			ID:    "job2",
			Title: "Electrician for Commercial Project",
			Description: "Immediate opening for electrician with experience in commercial wiring. " +
				"Knowledge of electrical codes and safety regulations required.",
			SkillsRequired: []string{"Electrical", "Wiring", "Circuit Installation"},
			Location:       models.Location{City: "Bangalore", State: "Karnataka"},
			Salary:         monthly(25000, 35000),
			EmployerID:     "emp2",
			EmployerName:   "TechBuild Solutions",
			EmployerLogo:   "https://picsum.photos/seed/techbuild/200",
			CreatedAt:      date(2023, time.May, 20, 0, 0),
			Status:         models.JobOpen,
		},
		{
			ID:    "job3",
			Title: "Carpenter for Furniture Workshop",
			Description: "Looking for skilled carpenters to join our furniture making workshop. " +
				"Experience with both traditional and modern techniques required.",
			SkillsRequired: []string{"Carpentry", "Furniture Making", "Wood Finishing"},
			Location:       models.Location{City: "Jaipur", State: "Rajasthan"},
			Salary:         monthly(18000, 28000),
			EmployerID:     "emp3",
			EmployerName:   "Creative Woodworks",
			EmployerLogo:   "https://picsum.photos/seed/woodworks/200",
			CreatedAt:      date(2023, time.June, 5, 0, 0),
			Status:         models.JobOpen,
		},
		{
			ID:    "job4",
			Title: "HVAC Technician",
			Description: "Hiring HVAC technicians for installation and maintenance of heating, ventilation, " +
				"and air conditioning systems in residential buildings.",
			SkillsRequired: []string{"HVAC", "Air Conditioning", "Ventilation Systems"},
			Location:       models.Location{City: "Delhi", State: "Delhi"},
			Salary:         monthly(22000, 32000),
			EmployerID:     "emp4",
			EmployerName:   "Cool Comfort Systems",
			EmployerLogo:   "https://picsum.photos/seed/coolcomfort/200",
			CreatedAt:      date(2023, time.June, 10, 0, 0),
			Status:         models.JobOpen,
		},
		{
			ID:    "job5",
			Title: "Driver for Logistics Company",
			Description: "We need experienced drivers with valid licenses for our logistics operations. " +
				"Good knowledge of local routes required.",
			SkillsRequired: []string{"Driving", "Logistics", "Route Planning"},
			Location:       models.Location{City: "Chennai", State: "Tamil Nadu"},
			Salary:         monthly(16000, 24000),
			EmployerID:     "emp5",
			EmployerName:   "FastTrack Logistics",
			EmployerLogo:   "https://picsum.photos/seed/fasttrack/200",
			CreatedAt:      date(2023, time.June, 15, 0, 0),
			Status:         models.JobOpen,
		},
	}
}

func seedWorkers() []models.Worker {
	worker := func(id, name, email, phone, avatar string) models.Identity {
		return models.Identity{ID: id, Name: name, Email: email, Role: models.RoleWorker, Phone: phone, Avatar: avatar}
	}

	return []models.Worker{
		{
			Identity: worker("worker1", "Raj Kumar", "raj.kumar@example.com", "+91 9876543210",
				"https://randomuser.me/api/portraits/men/32.jpg"),
			Skills:      []string{"Plumbing", "Pipe Fitting", "Water Heater Installation"},
			Experience:  "7 years",
			Location:    models.Location{City: "Mumbai", State: "Maharashtra"},
			VideoResume: "https://example.com/video1.mp4",
			Certifications: []models.Certification{
				{Name: "Certified Plumber", Verified: true, Url: "https://example.com/cert1.pdf"},
			},
			Availability: models.Immediate,
			Ratings:      rating(4.7),
		},
		{
			Identity: worker("worker2", "Amir Khan", "amir.khan@example.com", "+91 9876543211",
				"https://randomuser.me/api/portraits/men/55.jpg"),
			Skills:     []string{"Electrical", "Wiring", "Circuit Installation", "Solar Panel Installation"},
			Experience: "5 years",
			Location:   models.Location{City: "Delhi", State: "Delhi"},
			Certifications: []models.Certification{
				{Name: "Licensed Electrician", Verified: true, Url: "https://example.com/cert2.pdf"},
			},
			Availability: models.WithinWeek,
			Ratings:      rating(4.5),
		},
		{
			Identity: worker("worker3", "Priya Sharma", "priya.sharma@example.com", "+91 9876543212",
				"https://randomuser.me/api/portraits/women/65.jpg"),
			Skills:      []string{"Carpentry", "Furniture Making", "Wood Carving"},
			Experience:  "8 years",
			Location:    models.Location{City: "Jaipur", State: "Rajasthan"},
			VideoResume: "https://example.com/video3.mp4",
			Certifications: []models.Certification{
				{Name: "Master Carpenter", Verified: false, Url: "https://example.com/cert3.pdf"},
			},
			Availability: models.WithinMonth,
			Ratings:      rating(4.9),
		},
		{
			Identity: worker("worker4", "Vishnu Patel", "vishnu.patel@example.com", "+91 9876543213",
				"https://randomuser.me/api/portraits/men/41.jpg"),
			Skills:     []string{"HVAC", "Air Conditioning", "Ventilation Systems", "Refrigeration"},
			Experience: "6 years",
			Location:   models.Location{City: "Bangalore", State: "Karnataka"},
			Certifications: []models.Certification{
				{Name: "HVAC Technician", Verified: true, Url: "https://example.com/cert4.pdf"},
			},
			Availability: models.Immediate,
			Ratings:      rating(4.6),
		},
		{
			Identity: worker("worker5", "Sunil Verma", "sunil.verma@example.com", "+91 9876543214",
				"https://randomuser.me/api/portraits/men/88.jpg"),
			Skills:      []string{"Driving", "Logistics", "Vehicle Maintenance"},
			Experience:  "10 years",
			Location:    models.Location{City: "Chennai", State: "Tamil Nadu"},
			VideoResume: "https://example.com/video5.mp4",
			Certifications: []models.Certification{
				{Name: "Commercial Driver's License", Verified: true, Url: "https://example.com/cert5.pdf"},
			},
			Availability: models.Immediate,
			Ratings:      rating(4.8),
		},
	}
}

func seedEmployers() []models.Employer {
	employer := func(id, name, email, phone, avatar string) models.Identity {
		return models.Identity{ID: id, Name: name, Email: email, Role: models.RoleEmployer, Phone: phone, Avatar: avatar}
	}

	return []models.Employer{
		{
			Identity: employer("emp1", "Anita Sharma", "anita.sharma@example.com", "+91 9876543220",
				"https://randomuser.me/api/portraits/women/79.jpg"),
			CompanyName: "BuildRight Construction",
			Industry:    "Construction",
			Location:    models.Location{City: "Mumbai", State: "Maharashtra"},
			Description: "Leading construction company specializing in residential projects.",
			Website:     "https://buildright.example.com",
			Logo:        "https://picsum.photos/seed/buildright/200",
		},
		{
			Identity: employer("emp2", "Rahul Mehta", "rahul.mehta@example.com", "+91 9876543221",
				"https://randomuser.me/api/portraits/men/42.jpg"),
			CompanyName: "TechBuild Solutions",
			Industry:    "IT Infrastructure",
			Location:    models.Location{City: "Bangalore", State: "Karnataka"},
			Description: "IT company building state-of-the-art tech facilities.",
			Website:     "https://techbuild.example.com",
			Logo:        "https://picsum.photos/seed/techbuild/200",
		},
		{
			Identity: employer("emp3", "Deepak Singh", "deepak.singh@example.com", "+91 9876543222",
				"https://randomuser.me/api/portraits/men/63.jpg"),
			CompanyName: "Creative Woodworks",
			Industry:    "Furniture Manufacturing",
			Location:    models.Location{City: "Jaipur", State: "Rajasthan"},
			Description: "Custom furniture design and manufacturing workshop.",
			Website:     "https://creativewood.example.com",
			Logo:        "https://picsum.photos/seed/woodworks/200",
		},
	}
}

func seedConversations() []models.Conversation {
	conv := func(id, a, b string, created, updated time.Time) models.Conversation {
		c := models.NewConversation(id, a, b, created)
		c.UpdatedAt = updated
		return c
	}

	return []models.Conversation{
		conv("conv1", "worker1", "emp1", date(2023, time.June, 10, 0, 0), date(2023, time.June, 15, 0, 0)),
		conv("conv2", "worker2", "emp2", date(2023, time.June, 12, 0, 0), date(2023, time.June, 16, 0, 0)),
		conv("conv3", "worker3", "emp3", date(2023, time.June, 14, 0, 0), date(2023, time.June, 17, 0, 0)),
	}
}

type seededMessage struct {
	message models.Message
	read    bool
}

func seedMessages() []seededMessage {
	msg := func(id string, seq int64, sender, receiver, content string, at time.Time, read bool) seededMessage {
		return seededMessage{
			message: models.Message{ID: id, ConversationID: "conv1", Seq: seq, SenderID: sender,
				ReceiverID: receiver, Content: content, CreatedAt: at},
			read: read,
		}
	}

	return []seededMessage{
		msg("msg1", 1, "worker1", "emp1",
			"Hello, I'm interested in the plumbing job. Could you provide more details?",
			date(2023, time.June, 10, 10, 30), true),
		msg("msg2", 2, "emp1", "worker1",
			"Hi Raj, thanks for your interest. The job involves installing plumbing in a new residential building. "+
				"Could we schedule a call to discuss?",
			date(2023, time.June, 10, 11, 15), true),
		msg("msg3", 3, "worker1", "emp1",
			"That sounds good. I'm available tomorrow afternoon for a call.",
			date(2023, time.June, 10, 11, 45), true),
		msg("msg4", 4, "emp1", "worker1",
			"Great! Let's talk at 2 PM tomorrow. I'll send you the details.",
			date(2023, time.June, 10, 12, 0), false),
	}
}

func (c *DbContext) Seed() error {
	identities := make([]models.Identity, 0, len(DemoAccounts))
	for _, account := range DemoAccounts {
		identities = append(identities, account.Identity)
	}

	var messages []models.Message
	var markers []models.ReadMarker
	for _, seeded := range seedMessages() {
		messages = append(messages, seeded.message)
		if seeded.read {
			markers = append(markers, models.ReadMarker{
				MessageID: seeded.message.ID,
				ReaderID:  seeded.message.ReceiverID,
				ReadAt:    seeded.message.CreatedAt,
			})
		}
	}

	workers, employers := seedWorkers(), seedEmployers()
	jobs, conversations := seedJobs(), seedConversations()

	batches := []struct {
		name  string
		value any
	}{
		{"identities", &identities},
		{"workers", &workers},
		{"employers", &employers},
		{"jobs", &jobs},
		{"conversations", &conversations},
		{"messages", &messages},
		{"read markers", &markers},
	}

	for _, batch := range batches {
		if err := c.DB.Create(batch.value).Error; err != nil {
			return fmt.Errorf("failed to create %s in the database: %w", batch.name, err)
		}
	}
	return nil
}
