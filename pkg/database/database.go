package database

import (
	"fmt"
	"log"
	"time"

	"student_portal_backend/internal/config"
	"student_portal_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Student{},
		&model.Course{},
		&model.Enrollment{},
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.AnalysisReport{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Default course catalog so recommendations work on a fresh install.
	var count int64
	db.Model(&model.Course{}).Count(&count)
	if count == 0 {
		defaultCourses := []model.Course{
			{
				Name:          "Python Fundamentals",
				Description:   "Learn Python programming basics including variables, loops, functions, and data structures",
				Category:      "programming",
				Difficulty:    "beginner",
				Prerequisites: []string{},
				Objectives:    []string{"Variables and types", "Control flow", "Functions", "Lists and dictionaries"},
			},
			{
				Name:          "Advanced Python",
				Description:   "Master advanced Python concepts including OOP, decorators, generators, and async programming",
				Category:      "programming",
				Difficulty:    "intermediate",
				Prerequisites: []string{"Python Fundamentals"},
				Objectives:    []string{"Classes and objects", "Decorators", "Generators", "Async/await"},
			},
			{
				Name:          "Data Structures and Algorithms",
				Description:   "Study fundamental data structures and algorithms with Python implementation",
				Category:      "computer_science",
				Difficulty:    "intermediate",
				Prerequisites: []string{"Python Fundamentals"},
				Objectives:    []string{"Arrays and linked lists", "Trees and graphs", "Sorting algorithms", "Dynamic programming"},
			},
			{
				Name:          "Machine Learning Fundamentals",
				Description:   "Introduction to machine learning algorithms, model training, and evaluation",
				Category:      "machine_learning",
				Difficulty:    "intermediate",
				Prerequisites: []string{"Python Fundamentals", "Math for Machine Learning"},
				Objectives:    []string{"Supervised learning", "Model evaluation", "Feature engineering", "Scikit-learn"},
			},
			{
				Name:          "Deep Learning",
				Description:   "Neural networks, deep learning architectures, and TensorFlow/PyTorch",
				Category:      "machine_learning",
				Difficulty:    "advanced",
				Prerequisites: []string{"Machine Learning Fundamentals"},
				Objectives:    []string{"Neural networks", "CNNs", "RNNs", "Transfer learning"},
			},
			{
				Name:          "Web Development with Flask",
				Description:   "Build web applications using Python Flask framework",
				Category:      "web_development",
				Difficulty:    "intermediate",
				Prerequisites: []string{"Python Fundamentals"},
				Objectives:    []string{"Flask basics", "Routing", "Templates", "Database integration"},
			},
			{
				Name:          "Data Science with Python",
				Description:   "Analyze data using pandas, NumPy, and create visualizations",
				Category:      "data_science",
				Difficulty:    "intermediate",
				Prerequisites: []string{"Python Fundamentals"},
				Objectives:    []string{"Pandas", "NumPy", "Matplotlib", "Statistical analysis"},
			},
			{
				Name:          "Math for Machine Learning",
				Description:   "Linear algebra, calculus, and statistics for ML",
				Category:      "mathematics",
				Difficulty:    "intermediate",
				Prerequisites: []string{},
				Objectives:    []string{"Linear algebra", "Calculus", "Probability", "Statistics"},
			},
		}
		for _, course := range defaultCourses {
			db.Create(&course)
		}
	}

	// Demo students with course history so a fresh install has a cohort
	// for collaborative filtering.
	var studentCount int64
	db.Model(&model.Student{}).Count(&studentCount)
	if studentCount == 0 {
		seedDemoStudents(db)
	}

	return db, nil
}

type seedEnrollment struct {
	course string
	grade  float64
}

func seedDemoStudents(db *gorm.DB) {
	var catalog []model.Course
	db.Find(&catalog)
	courseIDs := make(map[string]uint, len(catalog))
	for _, c := range catalog {
		courseIDs[c.Name] = c.ID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Skipping demo students: %v", err)
		return
	}

	demoStudents := []struct {
		name      string
		email     string
		gpa       float64
		interests string
		completed []seedEnrollment
		enrolled  []string
	}{
		{
			name:      "Alice Johnson",
			email:     "alice@example.edu",
			gpa:       91.0,
			interests: "machine learning, data science",
			completed: []seedEnrollment{
				{"Python Fundamentals", 95},
				{"Data Structures and Algorithms", 88},
				{"Math for Machine Learning", 90},
			},
			enrolled: []string{"Machine Learning Fundamentals"},
		},
		{
			name:      "Bob Smith",
			email:     "bob@example.edu",
			gpa:       76.5,
			interests: "web development, backend APIs",
			completed: []seedEnrollment{
				{"Python Fundamentals", 78},
				{"Web Development with Flask", 75},
			},
			enrolled: []string{"Data Structures and Algorithms"},
		},
		{
			name:      "Charlie Davis",
			email:     "charlie@example.edu",
			gpa:       68.0,
			interests: "data analysis",
			completed: []seedEnrollment{
				{"Python Fundamentals", 68},
			},
			enrolled: []string{"Data Science with Python"},
		},
	}

	completedAt := time.Now()
	for _, d := range demoStudents {
		user := model.User{Name: d.name, Email: d.email, Password: string(hash), Role: model.RoleStudent}
		db.Create(&user)
		student := model.Student{UserID: user.ID, Name: d.name, GPA: d.gpa, Interests: d.interests}
		db.Create(&student)
		for _, ce := range d.completed {
			courseID, ok := courseIDs[ce.course]
			if !ok {
				continue
			}
			grade := ce.grade
			db.Create(&model.Enrollment{
				StudentID:   student.ID,
				CourseID:    courseID,
				Status:      model.EnrollmentCompleted,
				Grade:       &grade,
				CompletedAt: &completedAt,
			})
		}
		for _, name := range d.enrolled {
			if courseID, ok := courseIDs[name]; ok {
				db.Create(&model.Enrollment{StudentID: student.ID, CourseID: courseID, Status: model.EnrollmentActive})
			}
		}
	}
}
