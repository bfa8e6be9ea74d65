package repository

import (
	communityRepo "coursehub/database/repository/community"
	courseRepo "coursehub/database/repository/course"
	eventRepo "coursehub/database/repository/event"
	fileRepo "coursehub/database/repository/file"
	leadRepo "coursehub/database/repository/lead"
	progressRepo "coursehub/database/repository/progress"
	purchaseRepo "coursehub/database/repository/purchase"
	userRepo "coursehub/database/repository/user"

	"go.mongodb.org/mongo-driver/mongo"
)

// Repositories groups every Mongo-backed repository the server wires into services.
type Repositories struct {
	Users     userRepo.UserRepository
	Courses   courseRepo.CourseRepository
	Purchases purchaseRepo.PurchaseRepository
	Progress  progressRepo.ProgressRepository
	Community communityRepo.CommunityRepository
	Events    eventRepo.EventRepository
	Files     fileRepo.FileRepository
	Leads     leadRepo.LeadRepository
}

// NewMongoRepositories builds all repositories on db and ensures their indexes.
func NewMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:     userRepo.NewMongoUserRepo(db),
		Courses:   courseRepo.NewMongoCourseRepo(db),
		Purchases: purchaseRepo.NewMongoPurchaseRepo(db),
		Progress:  progressRepo.NewMongoProgressRepo(db),
		Community: communityRepo.NewMongoCommunityRepo(db),
		Events:    eventRepo.NewMongoEventRepo(db),
		Files:     fileRepo.NewMongoFileRepo(db),
		Leads:     leadRepo.NewMongoLeadRepo(db),
	}
}
