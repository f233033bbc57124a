package model

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_NewTemplate(t *testing.T) {
	tmpl := NewTemplate()

	assert.Equal(t, StatusEditing, tmpl.Status)
	assert.False(t, tmpl.CreatedAt.IsZero())

	// UUIDフォーマットの確認
	_, err := uuid.Parse(tmpl.ID)
	assert.NoError(t, err, "IDはUUID形式であるべき")
}

func TestTemplate_StatusTransitions(t *testing.T) {
	tests := []struct {
		name       string
		fromStatus string
		toStatus   string
		wantValid  bool
	}{
		// 正常な遷移
		{name: "editing -> confirming", fromStatus: StatusEditing, toStatus: StatusConfirming, wantValid: true},
		{name: "confirming -> editing (キャンセル)", fromStatus: StatusConfirming, toStatus: StatusEditing, wantValid: true},
		{name: "confirming -> submitting", fromStatus: StatusConfirming, toStatus: StatusSubmitting, wantValid: true},
		{name: "submitting -> editing (成功時)", fromStatus: StatusSubmitting, toStatus: StatusEditing, wantValid: true},
		{name: "submitting -> confirming (失敗時)", fromStatus: StatusSubmitting, toStatus: StatusConfirming, wantValid: true},

		// 不正な遷移
		{name: "editing -> submitting (不正)", fromStatus: StatusEditing, toStatus: StatusSubmitting, wantValid: false},
		{name: "submitting -> submitting (二重送信)", fromStatus: StatusSubmitting, toStatus: StatusSubmitting, wantValid: false},
		{name: "不明な状態", fromStatus: "unknown", toStatus: StatusEditing, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := NewTemplate()
			tmpl.Status = tt.fromStatus

			assert.Equal(t, tt.wantValid, tmpl.CanTransitionTo(tt.toStatus))

			err := tmpl.TransitionTo(tt.toStatus)
			if tt.wantValid {
				require.NoError(t, err)
				assert.Equal(t, tt.toStatus, tmpl.Status)
			} else {
				assert.Error(t, err)
				assert.Equal(t, tt.fromStatus, tmpl.Status)
			}
		})
	}
}

func TestTemplate_RecordOutcome(t *testing.T) {
	t.Run("正常系: 成功で編集に戻る", func(t *testing.T) {
		tmpl := NewTemplate()
		tmpl.Status = StatusSubmitting
		tmpl.LastError = "前回の失敗"

		tmpl.RecordSuccess("tmpl-123")

		assert.Equal(t, StatusEditing, tmpl.Status)
		assert.Equal(t, "tmpl-123", tmpl.TemplateID)
		assert.Empty(t, tmpl.LastError)
		assert.False(t, tmpl.SubmittedAt.IsZero())
		assert.False(t, tmpl.Submitting())
	})

	t.Run("異常系: 失敗で確認画面に戻る", func(t *testing.T) {
		tmpl := NewTemplate()
		tmpl.Status = StatusSubmitting

		tmpl.RecordFailure(errors.New("network down"))

		assert.Equal(t, StatusConfirming, tmpl.Status)
		assert.Equal(t, "network down", tmpl.LastError)
		assert.False(t, tmpl.Submitting())
	})
}

func TestTemplate_Reset(t *testing.T) {
	tmpl := NewTemplate()
	tmpl.Status = StatusConfirming
	tmpl.TemplateID = "tmpl-1"
	tmpl.Attempts = 2
	tmpl.LastError = "x"

	tmpl.Reset()

	assert.Equal(t, StatusEditing, tmpl.Status)
	assert.Empty(t, tmpl.TemplateID)
	assert.Empty(t, tmpl.LastError)
	assert.Zero(t, tmpl.Attempts)
	assert.True(t, tmpl.SubmittedAt.IsZero())
}
