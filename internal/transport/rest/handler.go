package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"psychologist/config"
	"psychologist/internal/service"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refreshTokens)
			auth.POST("/logout", h.logout)
		}

		users := api.Group("/users")
		users.Use(h.authMiddleware())
		{
			users.GET("/me", h.getCurrentUser)
			users.GET("/:id", h.getUserByID)
			users.PUT("/:id", h.updateUser)
			users.PUT("/:id/password", h.updatePassword)

			admin := users.Group("/")
			admin.Use(h.adminMiddleware())
			{
				admin.POST("/", h.createUser)
				admin.GET("/", h.getUsers)
				admin.DELETE("/:id", h.deleteUser)
			}
		}

		specialists := api.Group("/specialists")
		{
			specialists.GET("/", h.getSpecialists)
			specialists.GET("/:id", h.getSpecialistByID)
			specialists.GET("/me", h.authMiddleware(), h.getMySpecialistProfile)

			admin := specialists.Group("/", h.authMiddleware(), h.adminMiddleware())
			{
				admin.POST("/", h.createSpecialist)
				admin.PUT("/:id", h.updateSpecialist)
				admin.DELETE("/:id", h.deleteSpecialist)
			}
		}

		visitors := api.Group("/visitors")
		visitors.Use(h.authMiddleware(), h.employeeMiddleware())
		{
			visitors.GET("/", h.getVisitors)
			visitors.GET("/:id", h.getVisitorByID)
			visitors.POST("/", h.createVisitor)
			visitors.PUT("/:id", h.updateVisitor)
			visitors.DELETE("/:id", h.deleteVisitor)
		}

		h.initScheduleRoutes(api)

		consultations := api.Group("/consultations")
		consultations.Use(h.authMiddleware(), h.employeeMiddleware())
		{
			consultations.POST("/", h.createConsultation)
			consultations.GET("/", h.getConsultations)
			consultations.GET("/slot", h.getConsultationBySlot)
			consultations.GET("/:id", h.getConsultationByID)
			consultations.PUT("/:id", h.updateConsultation)
			consultations.PUT("/:id/arrived", h.setConsultationArrived)
			consultations.DELETE("/:id", h.deleteConsultation)
		}

		visitorActions := api.Group("/", h.authMiddleware(), h.visitorMiddleware())
		{
			visitorActions.POST("/appointment", h.createAppointment)
			visitorActions.POST("/cancel-consultation/:id", h.cancelConsultation)
			visitorActions.GET("/visitor-consultations", h.getVisitorConsultations)
		}
	}
}

func (h *Handler) initScheduleRoutes(api *gin.RouterGroup) {
	schedule := api.Group("/schedule")
	schedule.Use(h.authMiddleware())
	{
		schedule.GET("/:specialistId/:date/appointment", h.visitorMiddleware(), h.getFreeSlots)

		employee := schedule.Group("/", h.employeeMiddleware())
		{
			employee.GET("/:specialistId", h.getScheduleRange)
			employee.GET("/:specialistId/:date", h.getScheduleDay)
			employee.POST("/:specialistId", h.createScheduleDay)
			employee.POST("/:specialistId/range", h.createScheduleRange)
			employee.PUT("/:specialistId/:date", h.updateScheduleDay)
			employee.DELETE("/:specialistId/:date", h.deleteScheduleDay)
			employee.DELETE("/:specialistId", h.deleteScheduleRange)
		}
	}
}
