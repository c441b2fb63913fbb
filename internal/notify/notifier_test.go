package notify_test

import (
	"path/filepath"
	"strings"
	"testing"

	"taskboard/internal/database"
	"taskboard/internal/mail"
	"taskboard/internal/models"
	"taskboard/internal/notify"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// fixture holds one user per role with the reporting line and one project
// per manager wired up.
type fixture struct {
	db *gorm.DB

	admin, head, manager, otherManager, engineer models.User

	// ownedProject is managed by manager with head as its head manager;
	// otherProject belongs to otherManager.
	ownedProject, otherProject models.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{db: newTestDB(t)}

	f.admin = seedUser(t, f.db, "admin@x.local", "Ann Admin", models.RoleAdmin, nil)
	f.head = seedUser(t, f.db, "head@x.local", "Harriet Head", models.RoleHeadManager, nil)
	f.manager = seedUser(t, f.db, "manager@x.local", "Mike Manager", models.RoleManager, &f.head.ID)
	f.otherManager = seedUser(t, f.db, "other@x.local", "Olga Other", models.RoleManager, &f.head.ID)
	f.engineer = seedUser(t, f.db, "eng@x.local", "Erin Engineer", models.RoleEngineer, &f.manager.ID)

	customer := models.Customer{Name: "Acme"}
	if err := f.db.Create(&customer).Error; err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}

	f.ownedProject = seedProject(t, f.db, customer.ID, "Owned", &f.manager.ID, &f.head.ID)
	f.otherProject = seedProject(t, f.db, customer.ID, "Other", &f.otherManager.ID, &f.head.ID)

	return f
}

func seedUser(t *testing.T, db *gorm.DB, email, name string, role models.UserRole, managerID *uint) models.User {
	t.Helper()
	u := models.User{Email: email, Name: name, PasswordHash: "x", Role: role, ManagerID: managerID}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return u
}

func seedProject(t *testing.T, db *gorm.DB, customerID uint, name string, managerID, headManagerID *uint) models.Project {
	t.Helper()
	p := models.Project{
		CustomerID:    customerID,
		Name:          name,
		Status:        models.ProjectOnTrack,
		ManagerID:     managerID,
		HeadManagerID: headManagerID,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to seed project %s: %v", name, err)
	}
	return p
}

func newService(db *gorm.DB) *notify.Service {
	// unconfigured sender: email sends become silent no-ops
	return notify.NewService(db, mail.NewSender("", 0, "", "", ""))
}

func notificationsFor(t *testing.T, db *gorm.DB, userID uint) []models.Notification {
	t.Helper()
	var ns []models.Notification
	if err := db.Where("user_id = ?", userID).Find(&ns).Error; err != nil {
		t.Fatalf("failed to load notifications: %v", err)
	}
	return ns
}

func countByType(ns []models.Notification, typ string) int {
	n := 0
	for _, x := range ns {
		if x.Type == typ {
			n++
		}
	}
	return n
}

func TestEngineerStatusChangeNotifiesManagerOnce(t *testing.T) {
	f := newFixture(t)
	s := newService(f.db)

	task := models.Task{ProjectID: f.ownedProject.ID, Title: "Fix build", Status: models.TaskInProgress}
	s.TaskChanged(notify.TaskChange{
		Action:     notify.ActionUpdate,
		Task:       task,
		Project:    f.ownedProject,
		Actor:      f.engineer,
		PrevStatus: models.TaskPending,
	})

	ns := notificationsFor(t, f.db, f.manager.ID)
	if len(ns) != 1 {
		t.Fatalf("expected exactly 1 notification for the manager, got %d", len(ns))
	}
	msg := ns[0].Message
	if !strings.Contains(msg, "updated") || !strings.Contains(msg, "to status: In Progress") {
		t.Errorf("unexpected manager message: %q", msg)
	}
	if ns[0].Type != models.NotifTaskStatusUpdate {
		t.Errorf("manager notification type = %q, want %q", ns[0].Type, models.NotifTaskStatusUpdate)
	}

	// admins always hear about engineer changes
	if got := len(notificationsFor(t, f.db, f.admin.ID)); got != 1 {
		t.Errorf("expected 1 admin notification, got %d", got)
	}
	// head managers of the engineer's manager hear about updates
	if got := len(notificationsFor(t, f.db, f.head.ID)); got != 1 {
		t.Errorf("expected 1 head manager notification, got %d", got)
	}
}

func TestEngineerGenericUpdateSkipsManager(t *testing.T) {
	f := newFixture(t)
	s := newService(f.db)

	task := models.Task{ProjectID: f.ownedProject.ID, Title: "Fix build", Status: models.TaskPending}
	s.TaskChanged(notify.TaskChange{
		Action:     notify.ActionUpdate,
		Task:       task,
		Project:    f.ownedProject,
		Actor:      f.engineer,
		PrevStatus: models.TaskPending,
	})

	if got := len(notificationsFor(t, f.db, f.manager.ID)); got != 0 {
		t.Errorf("manager should not hear about a non-status engineer update, got %d", got)
	}
	if got := len(notificationsFor(t, f.db, f.admin.ID)); got != 1 {
		t.Errorf("expected 1 admin notification, got %d", got)
	}
}

// Status aliases must not retrigger notifications: "in-progress" and
// "in_progress" are the same status.
func TestAliasStatusChangeIsNotAChange(t *testing.T) {
	f := newFixture(t)
	s := newService(f.db)

	task := models.Task{ProjectID: f.ownedProject.ID, Title: "Fix build", Status: models.NormalizeTaskStatus("in-progress")}
	s.TaskChanged(notify.TaskChange{
		Action:     notify.ActionUpdate,
		Task:       task,
		Project:    f.ownedProject,
		Actor:      f.engineer,
		PrevStatus: models.TaskStatus("in_progress"),
	})

	if got := len(notificationsFor(t, f.db, f.manager.ID)); got != 0 {
		t.Errorf("alias-only status change notified the manager %d times", got)
	}
}

func TestAssignmentNotifiesNewAssignee(t *testing.T) {
	f := newFixture(t)
	s := newService(f.db)

	task := models.Task{ProjectID: f.otherProject.ID, Title: "Deploy", Status: models.TaskPending, AssignedTo: &f.engineer.ID}
	s.TaskChanged(notify.TaskChange{
		Action:         notify.ActionUpdate,
		Task:           task,
		Project:        f.otherProject,
		Actor:          f.manager,
		PrevStatus:     models.TaskPending,
		PrevAssignedTo: nil,
	})

	ns := notificationsFor(t, f.db, f.engineer.ID)
	if got := countByType(ns, models.NotifTaskAssigned); got != 1 {
		t.Fatalf("expected exactly 1 task_assigned notification, got %d", got)
	}
	for _, n := range ns {
		if n.Type == models.NotifTaskAssigned && !strings.Contains(n.Message, f.manager.Name) {
			t.Errorf("assignment message does not name the assigner: %q", n.Message)
		}
	}
}

func TestUnchangedAssignmentIsSkipped(t *testing.T) {
	f := newFixture(t)
	s := newService(f.db)

	task := models.Task{ProjectID: f.otherProject.ID, Title: "Deploy", Status: models.TaskPending, AssignedTo: &f.engineer.ID}
	s.TaskChanged(notify.TaskChange{
		Action:         notify.ActionUpdate,
		Task:           task,
		Project:        f.otherProject,
		Actor:          f.manager,
		PrevStatus:     models.TaskPending,
		PrevAssignedTo: &f.engineer.ID,
	})

	ns := notificationsFor(t, f.db, f.engineer.ID)
	if got := countByType(ns, models.NotifTaskAssigned); got != 0 {
		t.Fatalf("expected no task_assigned notification, got %d", got)
	}
}

// The head-manager notification is gated on project ownership: a manager
// acting on someone else's project reaches no head managers.
func TestManagerDeleteOnForeignProjectSkipsHeadManagers(t *testing.T) {
	f := newFixture(t)
	s := newService(f.db)

	task := models.Task{ProjectID: f.otherProject.ID, Title: "Cleanup", Status: models.TaskPending}
	s.TaskChanged(notify.TaskChange{
		Action:     notify.ActionDelete,
		Task:       task,
		Project:    f.otherProject,
		Actor:      f.manager, // not otherProject's manager
		PrevStatus: models.TaskPending,
	})

	if got := len(notificationsFor(t, f.db, f.head.ID)); got != 0 {
		t.Fatalf("head manager notified %d times despite ownership gate", got)
	}
}

func TestManagerDeleteOnOwnProjectNotifiesHeadManagers(t *testing.T) {
	f := newFixture(t)
	s := newService(f.db)

	task := models.Task{ProjectID: f.ownedProject.ID, Title: "Cleanup", Status: models.TaskPending}
	s.TaskChanged(notify.TaskChange{
		Action:     notify.ActionDelete,
		Task:       task,
		Project:    f.ownedProject,
		Actor:      f.manager,
		PrevStatus: models.TaskPending,
	})

	if got := len(notificationsFor(t, f.db, f.head.ID)); got != 1 {
		t.Fatalf("expected 1 head manager notification, got %d", got)
	}
}

func TestProjectDescriptionChangeNotifiesFollowersOnly(t *testing.T) {
	f := newFixture(t)
	s := newService(f.db)

	follower1 := seedUser(t, f.db, "f1@x.local", "Fred Follower", models.RoleEngineer, nil)
	follower2 := seedUser(t, f.db, "f2@x.local", "Fran Follower", models.RoleEngineer, nil)
	for _, uid := range []uint{follower1.ID, follower2.ID, f.otherManager.ID} {
		if err := f.db.Create(&models.ProjectFollower{ProjectID: f.otherProject.ID, UserID: uid}).Error; err != nil {
			t.Fatalf("failed to seed follower: %v", err)
		}
	}

	// description-only change by the project's own manager, who also follows it
	s.ProjectChanged(notify.ProjectChange{
		Action:     notify.ActionUpdate,
		Project:    f.otherProject,
		Actor:      f.otherManager,
		PrevStatus: f.otherProject.Status,
	})

	for _, follower := range []models.User{follower1, follower2} {
		ns := notificationsFor(t, f.db, follower.ID)
		if got := countByType(ns, models.NotifProjectUpdated); got != 1 {
			t.Errorf("follower %s: expected 1 project_updated notification, got %d", follower.Email, got)
		}
	}
	// the actor never notifies themselves via the follower list
	if got := countByType(notificationsFor(t, f.db, f.otherManager.ID), models.NotifProjectUpdated); got != 0 {
		t.Errorf("actor received %d follower notifications", got)
	}

	// and no task-level types fire for a project change
	var all []models.Notification
	f.db.Find(&all)
	if got := countByType(all, models.NotifTaskStatusUpdate) + countByType(all, models.NotifTaskAssigned); got != 0 {
		t.Errorf("project change produced %d task-level notifications", got)
	}
}

func TestNotifyHeadManagersForManagerDeduplicates(t *testing.T) {
	f := newFixture(t)
	s := newService(f.db)

	customer := models.Customer{Name: "Beta"}
	if err := f.db.Create(&customer).Error; err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	// second project with the same manager and head manager
	seedProject(t, f.db, customer.ID, "Owned2", &f.manager.ID, &f.head.ID)

	s.NotifyHeadManagersForManager(f.manager.ID, "hello", models.NotifProjectUpdated)

	if got := len(notificationsFor(t, f.db, f.head.ID)); got != 1 {
		t.Fatalf("expected 1 deduplicated notification, got %d", got)
	}
}
