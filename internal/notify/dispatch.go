package notify

import (
	"fmt"

	"taskboard/internal/models"
)

// change actions
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// TaskChange describes a committed task mutation: the final state plus the
// pieces of the previous state the dispatch rules care about.
type TaskChange struct {
	Action  string
	Task    models.Task
	Project models.Project
	Actor   models.User

	PrevStatus     models.TaskStatus
	PrevAssignedTo *uint
}

// ProjectChange is the project-side counterpart.
type ProjectChange struct {
	Action  string
	Project models.Project
	Actor   models.User

	PrevStatus models.ProjectStatus
}

// TaskChanged runs the role dispatch table for a task create/update/delete.
func (s *Service) TaskChanged(ev TaskChange) {
	statusChanged := ev.Action == ActionUpdate &&
		models.NormalizeTaskStatus(string(ev.PrevStatus)) != models.NormalizeTaskStatus(string(ev.Task.Status))

	// re-notification is skipped when the assignee did not actually change
	assignChanged := ev.Action != ActionDelete &&
		ev.Task.AssignedTo != nil &&
		(ev.PrevAssignedTo == nil || *ev.PrevAssignedTo != *ev.Task.AssignedTo)

	var msg, typ string
	switch {
	case ev.Action == ActionCreate:
		msg = fmt.Sprintf("%s created task %q", ev.Actor.Name, ev.Task.Title)
		typ = models.NotifTaskCreated
	case ev.Action == ActionDelete:
		msg = fmt.Sprintf("%s deleted task %q", ev.Actor.Name, ev.Task.Title)
		typ = models.NotifTaskDeleted
	case assignChanged:
		msg = fmt.Sprintf("%s reassigned task %q to %s",
			ev.Actor.Name, ev.Task.Title, s.assigneeName(*ev.Task.AssignedTo))
		typ = models.NotifTaskUpdated
	case statusChanged:
		msg = fmt.Sprintf("%s updated task %q to status: %s",
			ev.Actor.Name, ev.Task.Title, models.StatusDisplay(string(ev.Task.Status)))
		typ = models.NotifTaskStatusUpdate
	default:
		msg = fmt.Sprintf("%s updated task %q", ev.Actor.Name, ev.Task.Title)
		typ = models.NotifTaskUpdated
	}

	// the new assignee always hears about it, whoever the actor is
	if assignChanged {
		s.CreateNotification(*ev.Task.AssignedTo,
			fmt.Sprintf("%s assigned you the task %q", ev.Actor.Name, ev.Task.Title),
			models.NotifTaskAssigned)
	}

	s.dispatchByRole(ev.Action, ev.Actor, ev.Project, statusChanged, msg, typ)
	s.notifyFollowers(ev.Project, ev.Actor, msg, typ)
}

// ProjectChanged runs the role dispatch table for a project create/update/delete.
func (s *Service) ProjectChanged(ev ProjectChange) {
	statusChanged := ev.Action == ActionUpdate &&
		models.NormalizeProjectStatus(string(ev.PrevStatus)) != models.NormalizeProjectStatus(string(ev.Project.Status))

	var msg, typ string
	switch {
	case ev.Action == ActionCreate:
		msg = fmt.Sprintf("%s created project %q", ev.Actor.Name, ev.Project.Name)
		typ = models.NotifProjectCreated
	case ev.Action == ActionDelete:
		msg = fmt.Sprintf("%s deleted project %q", ev.Actor.Name, ev.Project.Name)
		typ = models.NotifProjectDeleted
	case statusChanged:
		msg = fmt.Sprintf("%s updated project %q to status: %s",
			ev.Actor.Name, ev.Project.Name, models.StatusDisplay(string(ev.Project.Status)))
		typ = models.NotifProjectUpdated
	default:
		msg = fmt.Sprintf("%s updated project %q", ev.Actor.Name, ev.Project.Name)
		typ = models.NotifProjectUpdated
	}

	s.dispatchByRole(ev.Action, ev.Actor, ev.Project, statusChanged, msg, typ)
	s.notifyFollowers(ev.Project, ev.Actor, msg, typ)
}

// dispatchByRole is the actor-role part of the table, shared by tasks and
// projects.
func (s *Service) dispatchByRole(action string, actor models.User, project models.Project, statusChanged bool, msg, typ string) {
	switch actor.Role {
	case models.RoleEngineer:
		// the reporting manager only hears about status changes
		if statusChanged && actor.ManagerID != nil {
			s.CreateNotification(*actor.ManagerID, msg, typ)
		}
		s.NotifyAllAdmins(msg, typ)
		switch action {
		case ActionCreate, ActionDelete:
			s.NotifyAllManagers(msg, typ)
			s.NotifyAllHeadManagers(msg, typ)
		default:
			if actor.ManagerID != nil {
				s.NotifyHeadManagersForManager(*actor.ManagerID, msg, typ)
			}
		}

	case models.RoleManager:
		// head managers are gated on project ownership, not role alone
		if project.ManagerID != nil && *project.ManagerID == actor.ID {
			s.NotifyHeadManagersForManager(actor.ID, msg, typ)
		}
	}
}
