package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/notify"
	"taskboard/internal/sheets"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

var (
	errInvalidStatus        = errors.New("invalid status")
	errInvalidAllocatedTime = errors.New("invalid allocated_time: want HH:MM:SS")
)

func errUserNotFound(field string) error {
	return fmt.Errorf("%s: user not found", field)
}

// Handler carries the injected collaborators. The database stays global,
// the side-effect services are constructed in main and passed in.
type Handler struct {
	Notifier *notify.Service
	Sheets   sheets.Syncer
}

func New(notifier *notify.Service, syncer sheets.Syncer) *Handler {
	return &Handler{Notifier: notifier, Sheets: syncer}
}

func respondOK(c *gin.Context, message string) {
	c.JSON(200, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// currentUser pulls the user that middleware.InjectUser resolved.
func currentUser(c *gin.Context) (models.User, bool) {
	if uVal, ok := c.Get("CurrentUser"); ok {
		switch u := uVal.(type) {
		case models.User:
			return u, true
		case *models.User:
			return *u, true
		}
	}
	return models.User{}, false
}

//
// open-payload helpers
//
// Mutation bodies arrive as open JSON maps so that a present-but-null key
// (clear the assignee) can be told apart from an absent one.
//

func payloadString(p map[string]interface{}, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func payloadBool(p map[string]interface{}, key string) (bool, bool) {
	v, ok := p[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// payloadUintPtr returns (value, present, error). A JSON null yields
// (nil, true, nil).
func payloadUintPtr(p map[string]interface{}, key string) (*uint, bool, error) {
	v, ok := p[key]
	if !ok {
		return nil, false, nil
	}
	if v == nil {
		return nil, true, nil
	}
	f, ok := v.(float64)
	if !ok || f < 0 {
		return nil, true, fmt.Errorf("%s must be a user id or null", key)
	}
	id := uint(f)
	return &id, true, nil
}

func payloadUint(p map[string]interface{}, key string) (uint, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok || f <= 0 {
		return 0, false
	}
	return uint(f), true
}

// payloadDate parses a "2006-01-02" value; null clears the date.
func payloadDate(p map[string]interface{}, key string) (*time.Time, bool, error) {
	v, ok := p[key]
	if !ok {
		return nil, false, nil
	}
	if v == nil {
		return nil, true, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, true, fmt.Errorf("%s must be a YYYY-MM-DD string or null", key)
	}
	if s == "" {
		return nil, true, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, true, fmt.Errorf("invalid %s: %v", key, err)
	}
	return &t, true, nil
}

func payloadObject(p map[string]interface{}, key string) (map[string]interface{}, bool, error) {
	v, ok := p[key]
	if !ok {
		return nil, false, nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, true, fmt.Errorf("%s must be an object", key)
	}
	return m, true, nil
}

//
// snapshot stringification for the change diff
//

func uintPtrString(v *uint) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func datePtrString(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format(dateLayout)
}

func jsonMapString(m datatypes.JSONMap) string {
	if len(m) == 0 {
		return ""
	}
	b, err := json.Marshal(map[string]interface{}(m))
	if err != nil {
		return ""
	}
	return string(b)
}
