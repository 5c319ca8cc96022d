package services

import (
	"context"
	"fmt"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/arnold/goalplan-api/internal/database"
	"github.com/arnold/goalplan-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

type recordingSender struct {
	sent []*messaging.Message
}

func (r *recordingSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	r.sent = append(r.sent, m)
	return "projects/test/messages/1", nil
}

func TestSendToUser(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(dsn, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	withToken := models.User{Email: "a@example.com", FCMToken: "device-1"}
	require.NoError(t, db.Create(&withToken).Error)
	without := models.User{Email: "b@example.com"}
	require.NoError(t, db.Create(&without).Error)

	rec := &recordingSender{}
	p := &PushService{client: rec, db: db}

	p.SendToUser(withToken.ID, "Goal created", "Read 12 books", map[string]string{"goalId": "g1"})
	p.SendToUser(without.ID, "Goal created", "ignored", nil)
	p.SendToUser(uuid.New(), "Goal created", "ignored", nil)

	require.Len(t, rec.sent, 1)
	assert.Equal(t, "device-1", rec.sent[0].Token)
	assert.Equal(t, "Read 12 books", rec.sent[0].Notification.Body)
	assert.Equal(t, "g1", rec.sent[0].Data["goalId"])
}

func TestDisabledPushIsNoop(t *testing.T) {
	var p *PushService
	assert.False(t, p.Enabled())
	p.SendToUser(uuid.New(), "t", "b", nil)

	require.NoError(t, InitPush("", nil))
	assert.False(t, Push.Enabled())
}
