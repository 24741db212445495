package router

import (
	"log"
	"os"
	"time"

	"github.com/campusfund/fee-api/config"
	"github.com/campusfund/fee-api/database"
	"github.com/campusfund/fee-api/handlers"
	admin_handlers "github.com/campusfund/fee-api/handlers/admin"
	auth_handlers "github.com/campusfund/fee-api/handlers/auth"
	dashboard_handlers "github.com/campusfund/fee-api/handlers/dashboard"
	department_handlers "github.com/campusfund/fee-api/handlers/department"
	importer_handlers "github.com/campusfund/fee-api/handlers/importer"
	payment_handlers "github.com/campusfund/fee-api/handlers/payment"
	student_handlers "github.com/campusfund/fee-api/handlers/student"
	"github.com/campusfund/fee-api/services"
	"github.com/campusfund/fee-api/storage"
	"github.com/campusfund/fee-api/utils/auth"
	"github.com/campusfund/fee-api/utils/cache"
	"github.com/campusfund/fee-api/utils/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if getEnv.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := getEnv.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "fee-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: getEnv.JWT_SECRET,
		Expiry: 24 * time.Hour,
		Issuer: jwtIssuer,
	})

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs brute force protection on login. The API stays up
	// without it.
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Receipt storage is optional too; payments without a configured
	// bucket simply record no file reference.
	var receiptStore services.ReceiptStore
	if getEnv.SPACES_ACCESS_KEY != "" && getEnv.SPACES_BUCKET != "" {
		spacesClient, err := storage.NewSpacesClient(storage.SpacesConfig{
			AccessKey: getEnv.SPACES_ACCESS_KEY,
			SecretKey: getEnv.SPACES_SECRET_KEY,
			Bucket:    getEnv.SPACES_BUCKET,
			Region:    getEnv.SPACES_REGION,
			Endpoint:  getEnv.SPACES_ENDPOINT,
			CDNURL:    getEnv.SPACES_CDN_URL,
		})
		if err != nil {
			log.Printf("Warning: Failed to initialize receipt storage: %v. Receipts will not be stored.", err)
		} else {
			receiptStore = spacesClient
		}
	}

	paymentService := services.NewPaymentService(db, receiptStore)
	importService := services.NewImportService(db)
	dashboardService := services.NewDashboardService(db)
	departmentService := services.NewDepartmentService(db)
	studentService := services.NewStudentService(db)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	dashboardHandler := dashboard_handlers.NewDashboardHandler(db, dashboardService)
	departmentHandler := department_handlers.NewDepartmentHandler(db, departmentService)
	studentHandler := student_handlers.NewStudentHandler(db, studentService, dashboardService)
	paymentHandler := payment_handlers.NewPaymentHandler(db, paymentService)
	importHandler := importer_handlers.NewImportHandler(db, importService)
	adminHandler := admin_handlers.NewAdminHandler(db)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes
	authGroup := api.Group("/auth")
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Get("/profile", authMiddleware.Required(), authHandler.GetProfile)

	// Dashboard (any authenticated operator)
	api.Get("/dashboard", authMiddleware.Required(), dashboardHandler.GetDashboard)

	// Students
	students := api.Group("/students")
	students.Get("/:id", authMiddleware.Required(), studentHandler.GetStudent)
	students.Post("/", authMiddleware.RequireAdmin(),
		middleware.AuditLog(db, "student_create", "students"), studentHandler.CreateStudent)

	// Departments
	departments := api.Group("/departments")
	departments.Get("/", authMiddleware.Required(), departmentHandler.ListDepartments)
	departments.Get("/:id", authMiddleware.Required(), departmentHandler.GetDepartment)
	departments.Get("/:id/students", authMiddleware.Required(), studentHandler.ListStudents)
	departments.Post("/", authMiddleware.RequireAdmin(),
		middleware.AuditLog(db, "department_create", "departments"), departmentHandler.CreateDepartment)
	departments.Delete("/:id", authMiddleware.RequireAdmin(),
		middleware.AuditLog(db, "department_delete", "departments"), departmentHandler.DeleteDepartment)

	// Admin ledger mutations
	admin := api.Group("/admin", authMiddleware.RequireAdmin())
	admin.Post("/payments",
		middleware.AuditLog(db, "payment_record", "students"), paymentHandler.RecordPayment)
	admin.Put("/contributions/:id",
		middleware.AuditLog(db, "contribution_update", "contributions"), paymentHandler.UpdateContributionReference)
	admin.Post("/import-students",
		middleware.AuditLog(db, "student_import", "students"), importHandler.ImportStudents)
	admin.Get("/audit-logs", adminHandler.ListAuditLogs)
}
