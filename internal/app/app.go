package app

import (
	"context"
	"fmt"

	"github.com/horus-attendance/horus-backend-go/internal/config"
	"github.com/horus-attendance/horus-backend-go/internal/domain/attendance"
	"github.com/horus-attendance/horus-backend-go/internal/domain/dashboard"
	"github.com/horus-attendance/horus-backend-go/internal/domain/department"
	"github.com/horus-attendance/horus-backend-go/internal/domain/report"
	"github.com/horus-attendance/horus-backend-go/internal/domain/user"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/database"
	"github.com/horus-attendance/horus-backend-go/internal/pkg/jwt"
	"github.com/horus-attendance/horus-backend-go/internal/repository/postgresql"
	attendanceService "github.com/horus-attendance/horus-backend-go/internal/service/attendance"
	dashboardService "github.com/horus-attendance/horus-backend-go/internal/service/dashboard"
	departmentService "github.com/horus-attendance/horus-backend-go/internal/service/department"
	reportService "github.com/horus-attendance/horus-backend-go/internal/service/report"
	userService "github.com/horus-attendance/horus-backend-go/internal/service/user"
)

// Container holds the services shared by the API server and the CLI.
type Container struct {
	DB         *database.DB
	JWT        jwt.Service
	Attendance attendance.AttendanceService
	Report     report.ReportService
	Dashboard  dashboard.DashboardService
	User       user.UserService
	Department department.DepartmentService
}

// New connects to the database and wires repositories into services.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// repositories
	userRepo := postgresql.NewUserRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	punchRepo := postgresql.NewPunchRepository(db)
	summaryRepo := postgresql.NewSummaryRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	// services
	return &Container{
		DB:  db,
		JWT: jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration),
		Attendance: attendanceService.NewAttendanceService(
			postgresql.NewTransactor(db),
			userRepo,
			punchRepo,
			summaryRepo,
			holidayRepo,
			settingsRepo,
		),
		Report: reportService.NewReportService(
			userRepo,
			summaryRepo,
			holidayRepo,
			settingsRepo,
			cfg.Report.Workers,
			reportService.DefaultSpreadsheetStyle(),
		),
		Dashboard:  dashboardService.NewDashboardService(userRepo, summaryRepo),
		User:       userService.NewUserService(userRepo, departmentRepo),
		Department: departmentService.NewDepartmentService(departmentRepo),
	}, nil
}

func (c *Container) Close() {
	c.DB.Close()
}
