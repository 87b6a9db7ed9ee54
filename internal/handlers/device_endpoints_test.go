package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aryasetia/doorguard/internal/database/testutil"
	"github.com/aryasetia/doorguard/internal/middleware"
	"github.com/aryasetia/doorguard/internal/models"
	"github.com/aryasetia/doorguard/internal/services"
)

func newDeviceTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	accessHandler, err := NewAccessLogHandler(db)
	require.NoError(t, err)

	movements, err := services.NewMovementService(db, nil, 30*time.Second)
	require.NoError(t, err)
	movementHandler := NewMovementHandler(movements)

	r := gin.New()
	r.POST("/api/access_logs", accessHandler.LogAccess)
	r.POST("/api/movement", movementHandler.LogMovement)
	return r, db
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogAccessEndpoint(t *testing.T) {
	r, db := newDeviceTestRouter(t)

	user := models.User{Name: "Alice", Email: "alice@example.com", Password: "hash", Role: models.RoleUser, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	door := models.Door{Name: "Server Room", Location: "Basement", IsActive: true}
	require.NoError(t, db.Create(&door).Error)
	card := models.RfidCard{CardNumber: "CARD-01", UserID: &user.ID, IsActive: true, IssuedAt: time.Now().UTC()}
	require.NoError(t, db.Create(&card).Error)
	require.NoError(t, db.Create(&models.UserPermission{UserID: user.ID, DoorID: door.ID, IsActive: true}).Error)

	w := postJSON(t, r, "/api/access_logs", gin.H{"card_number": "CARD-01", "door_id": door.ID})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		AccessGranted bool   `json:"access_granted"`
		Reason        string `json:"reason"`
		LogID         string `json:"log_id"`
		User          *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.AccessGranted)
	require.Empty(t, body.Reason)
	require.NotEmpty(t, body.LogID)
	require.NotNil(t, body.User)
	require.Equal(t, "Alice", body.User.Name)

	// Unknown card is an expected rejection, still HTTP 200.
	w = postJSON(t, r, "/api/access_logs", gin.H{"card_number": "BOGUS", "door_id": door.ID})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.False(t, body.AccessGranted)
	require.Equal(t, "unknown_card", body.Reason)

	// Missing fields never reach the decision engine.
	w = postJSON(t, r, "/api/access_logs", gin.H{"card_number": "CARD-01"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var total int64
	require.NoError(t, db.Model(&models.AccessLog{}).Count(&total).Error)
	require.EqualValues(t, 2, total)
}

func TestLogMovementEndpoint(t *testing.T) {
	r, db := newDeviceTestRouter(t)

	door := models.Door{Name: "Lab", Location: "Floor 2", IsActive: true}
	require.NoError(t, db.Create(&door).Error)

	w := postJSON(t, r, "/api/movement", gin.H{"door_id": door.ID, "sensor_id": "pir-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		MovementLogged bool   `json:"movement_logged"`
		MovementID     string `json:"movement_id"`
		RequiresAction bool   `json:"requires_action"`
		AlertCreated   bool   `json:"alert_created"`
		AlertID        string `json:"alert_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.MovementLogged)
	require.True(t, body.RequiresAction)
	require.True(t, body.AlertCreated)
	require.NotEmpty(t, body.AlertID)

	// With a fresh grant the same report is benign.
	require.NoError(t, db.Create(&models.AccessLog{
		DoorID:     door.ID,
		AccessType: models.AccessTypeAuthorized,
		Status:     models.AccessStatusSuccess,
		AccessedAt: time.Now().UTC(),
	}).Error)

	w = postJSON(t, r, "/api/movement", gin.H{"door_id": door.ID, "sensor_id": "pir-1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.False(t, body.RequiresAction)
	require.False(t, body.AlertCreated)
}

func TestAcknowledgeEndpointConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	door := models.Door{Name: "Vault", Location: "Basement", IsActive: true}
	require.NoError(t, db.Create(&door).Error)
	alert := models.Alert{DoorID: door.ID, AlertType: models.AlertTypeUnauthorizedMovement, TriggeredAt: time.Now().UTC()}
	require.NoError(t, db.Create(&alert).Error)
	admin := models.User{Name: "Root", Email: "root@example.com", Password: "hash", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&admin).Error)

	alertHandler, err := NewAlertHandler(db)
	require.NoError(t, err)

	r := gin.New()
	r.PUT("/api/alerts/:id/acknowledge", func(c *gin.Context) {
		c.Set(middleware.CtxUserIDKey, admin.ID)
		alertHandler.Acknowledge(c)
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/alerts/"+alert.ID+"/acknowledge", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do()
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Alert acknowledged.")

	w = do()
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), "ALERT_ALREADY_ACKNOWLEDGED")
}
