// Package notify turns "what changed, by whom" into in-app notification
// rows and follower emails. Every recipient group is its own failure
// boundary: a failed send is logged and the remaining groups still run.
package notify

import (
	"fmt"
	"log"

	"taskboard/internal/mail"
	"taskboard/internal/models"

	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	mailer *mail.Sender
}

func NewService(db *gorm.DB, mailer *mail.Sender) *Service {
	return &Service{db: db, mailer: mailer}
}

// CreateNotification inserts one in-app notification row. Best-effort.
func (s *Service) CreateNotification(userID uint, message, typ string) {
	n := models.Notification{
		UserID:  userID,
		Message: message,
		Type:    typ,
	}
	if err := s.db.Create(&n).Error; err != nil {
		log.Printf("notify: failed to create notification for user %d: %v", userID, err)
	}
}

func (s *Service) notifyRole(role models.UserRole, message, typ string) {
	var users []models.User
	if err := s.db.Where("role = ?", role).Find(&users).Error; err != nil {
		log.Printf("notify: failed to load %s recipients: %v", role, err)
		return
	}
	for _, u := range users {
		s.CreateNotification(u.ID, message, typ)
	}
}

func (s *Service) NotifyAllAdmins(message, typ string) {
	s.notifyRole(models.RoleAdmin, message, typ)
}

func (s *Service) NotifyAllManagers(message, typ string) {
	s.notifyRole(models.RoleManager, message, typ)
}

func (s *Service) NotifyAllHeadManagers(message, typ string) {
	s.notifyRole(models.RoleHeadManager, message, typ)
}

// NotifyHeadManagersForManager notifies the head managers attached to the
// projects that the given manager manages. Managers with no managed
// projects reach nobody here.
func (s *Service) NotifyHeadManagersForManager(managerID uint, message, typ string) {
	var ids []uint
	err := s.db.Model(&models.Project{}).
		Where("manager_id = ? AND head_manager_id IS NOT NULL", managerID).
		Distinct().
		Pluck("head_manager_id", &ids).Error
	if err != nil {
		log.Printf("notify: failed to load head managers for manager %d: %v", managerID, err)
		return
	}
	for _, id := range ids {
		s.CreateNotification(id, message, typ)
	}
}

// notifyFollowers fans out to the project's explicit follower list,
// excluding the actor: one in-app row per follower plus a single batched
// email with every follower address on it.
func (s *Service) notifyFollowers(project models.Project, actor models.User, message, typ string) {
	var followers []models.User
	err := s.db.
		Joins("JOIN project_followers pf ON pf.user_id = users.id").
		Where("pf.project_id = ? AND users.id <> ?", project.ID, actor.ID).
		Find(&followers).Error
	if err != nil {
		log.Printf("notify: failed to load followers of project %d: %v", project.ID, err)
		return
	}
	if len(followers) == 0 {
		return
	}

	emails := make([]string, 0, len(followers))
	for _, f := range followers {
		s.CreateNotification(f.ID, message, typ)
		if f.Email != "" {
			emails = append(emails, f.Email)
		}
	}

	subject := fmt.Sprintf("Update in project %q", project.Name)
	html := "<p>" + message + "</p>"
	if err := s.mailer.Send(emails, subject, html); err != nil {
		log.Printf("notify: follower email for project %d failed: %v", project.ID, err)
	}
}

func (s *Service) assigneeName(id uint) string {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		log.Printf("notify: failed to load assignee %d: %v", id, err)
		return fmt.Sprintf("user %d", id)
	}
	return u.Name
}
