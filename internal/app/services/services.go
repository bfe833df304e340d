// Package services holds the business rules on top of the worksheet repositories.
//
// Services defined in this package:
//   - CourseService: course catalogue and course pages
//   - MaterialService: material listings, ratings and verification
//   - OpportunityService: opportunities, jobs and events with facets
//   - TimetableService: merged professor availability
//   - AuthService: registration and login
//   - UserService: profile directory and profile pages
//   - CommentService: comments on materials and profiles
package services

import (
	"github.com/rs/zerolog"

	"github.com/yigit/universe/internal/app/repositories"
	"github.com/yigit/universe/internal/pkg/auth"
	"github.com/yigit/universe/internal/pkg/email"
)

// Services holds all the service instances
type Services struct {
	CourseService      CourseService
	MaterialService    MaterialService
	OpportunityService OpportunityService
	TimetableService   TimetableService
	AuthService        *AuthService
	UserService        UserService
	CommentService     CommentService
}

// Options carries the settings the services need beyond the repositories
type Options struct {
	VerificationEmail string
	JWTService        *auth.JWTService
	EmailService      email.EmailService
	Logger            zerolog.Logger
}

// NewServices wires every service onto repos
func NewServices(repos *repositories.Repositories, opts Options) *Services {
	materials := NewMaterialService(repos.MaterialRepository, repos.UserRepository, opts.EmailService, opts.VerificationEmail, opts.Logger)
	comments := NewCommentService(repos.CommentRepository, repos.MaterialRepository, repos.UserRepository, opts.Logger)

	return &Services{
		CourseService:      NewCourseService(repos.CourseRepository, materials, comments),
		MaterialService:    materials,
		OpportunityService: NewOpportunityService(repos.OpportunityRepository),
		TimetableService:   NewTimetableService(repos.TimetableRepository),
		AuthService:        NewAuthService(repos.UserRepository, opts.JWTService, opts.EmailService, opts.Logger),
		UserService:        NewUserService(repos.UserRepository, materials, comments),
		CommentService:     comments,
	}
}
