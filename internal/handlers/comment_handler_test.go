package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinboard/internal/model"
)

// createReply добавляет ответ на пин через API и возвращает id комментария.
func (e *env) createReply(t *testing.T, appID string, userID, pinID int64, text string, files ...testFile) int64 {
	t.Helper()
	path := fmt.Sprintf("/v1/pins/%d/comments", pinID)
	req := identify(formRequest(t, http.MethodPost, path, map[string]string{"text": text}, files...), appID, userID)
	rr := e.do(req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	comment := decodeBody(t, rr)["comment"].(map[string]any)
	// ответ создания несёт только id
	require.Len(t, comment, 1)
	return int64(comment["id"].(float64))
}

func TestReplies_EmptyList(t *testing.T) {
	e := newEnv(t)
	userID := e.createUser(t, "app-1", "ext-1", "Alice")
	pinID := e.createPin(t, "app-1", userID, pinFields("root"))

	rr := e.do(identify(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/pins/%d/comments", pinID), nil), "app-1", userID))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "0", rr.Header().Get("X-Total-Count"))

	body := decodeBody(t, rr)
	assert.Equal(t, []any{}, body["nodes"])
	assert.Nil(t, body["error"])
}

func TestReplies_CreateAndList(t *testing.T) {
	e := newEnv(t)
	alice := e.createUser(t, "app-1", "ext-1", "Alice")
	bob := e.createUser(t, "app-1", "ext-2", "Bob")
	pinID := e.createPin(t, "app-1", alice, pinFields("root"))

	e.createReply(t, "app-1", bob, pinID, "first reply",
		testFile{name: "a.png", contentType: "image/png", data: pngBytes(t)})
	e.createReply(t, "app-1", alice, pinID, "second reply")

	rr := e.do(identify(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/pins/%d/comments", pinID), nil), "app-1", alice))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "2", rr.Header().Get("X-Total-Count"))

	nodes := decodeBody(t, rr)["nodes"].([]any)
	require.Len(t, nodes, 2)

	// Корневой не входит, порядок от старых к новым.
	first := nodes[0].(map[string]any)
	assert.Equal(t, "first reply", first["text"])
	assert.Equal(t, "Bob", first["user"].(map[string]any)["name"])
	require.Len(t, first["attachments"].([]any), 1)

	second := nodes[1].(map[string]any)
	assert.Equal(t, "second reply", second["text"])
	assert.Equal(t, "Alice", second["user"].(map[string]any)["name"])

	// Пин теперь показывает два ответа.
	rr = e.do(identify(httptest.NewRequest(http.MethodGet, "/v1/pins", nil), "app-1", alice))
	require.Equal(t, http.StatusOK, rr.Code)
	pin := decodeBody(t, rr)["nodes"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(2), pin["total_replies"])
}

func TestReplies_ValidationRequiredText(t *testing.T) {
	e := newEnv(t)
	userID := e.createUser(t, "app-1", "ext-1", "Alice")
	pinID := e.createPin(t, "app-1", userID, pinFields("root"))

	req := identify(formRequest(t, http.MethodPost, fmt.Sprintf("/v1/pins/%d/comments", pinID), map[string]string{}), "app-1", userID)
	rr := e.do(req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Contains(t, body, "comment")
	assert.Nil(t, body["comment"])
	assert.Equal(t, "REQUIRED", body["error"].(map[string]any)["text"])

	req = identify(formRequest(t, http.MethodPost, fmt.Sprintf("/v1/pins/%d/comments", pinID), map[string]string{"text": "   "}), "app-1", userID)
	rr = e.do(req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body = decodeBody(t, rr)
	assert.Nil(t, body["comment"])
	assert.Equal(t, "INVALID", body["error"].(map[string]any)["text"])
}

func TestCommentUpdate_OwnerScoped(t *testing.T) {
	e := newEnv(t)
	alice := e.createUser(t, "app-1", "ext-1", "Alice")
	bob := e.createUser(t, "app-1", "ext-2", "Bob")
	pinID := e.createPin(t, "app-1", alice, pinFields("root"))
	commentID := e.createReply(t, "app-1", alice, pinID, "original")

	path := fmt.Sprintf("/v1/comments/%d", commentID)

	// Чужой текст не меняется.
	rr := e.do(identify(jsonRequest(t, http.MethodPatch, path, map[string]string{"text": "hijacked"}), "app-1", bob))
	require.Equal(t, http.StatusOK, rr.Code)

	var c model.Comment
	require.NoError(t, e.db.First(&c, commentID).Error)
	assert.Equal(t, "original", c.Text)

	rr = e.do(identify(jsonRequest(t, http.MethodPatch, path, map[string]string{"text": "edited"}), "app-1", alice))
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, e.db.First(&c, commentID).Error)
	assert.Equal(t, "edited", c.Text)

	// Пустой текст отклоняется, success в ответе false.
	rr = e.do(identify(jsonRequest(t, http.MethodPatch, path, map[string]string{"text": "  "}), "app-1", alice))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "INVALID", body["error"].(map[string]any)["text"])
}

func TestCommentDelete_CleansStorageObjects(t *testing.T) {
	e := newEnv(t)
	alice := e.createUser(t, "app-1", "ext-1", "Alice")
	bob := e.createUser(t, "app-1", "ext-2", "Bob")
	pinID := e.createPin(t, "app-1", alice, pinFields("root"))
	commentID := e.createReply(t, "app-1", alice, pinID, "with file",
		testFile{name: "a.png", contentType: "image/png", data: pngBytes(t)})

	path := fmt.Sprintf("/v1/comments/%d", commentID)

	// Чужое удаление — no-op, объекты на месте.
	rr := e.do(identify(httptest.NewRequest(http.MethodDelete, path, nil), "app-1", bob))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, e.storage.deleted)

	var count int64
	require.NoError(t, e.db.Model(&model.Comment{}).Where("id = ?", commentID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	rr = e.do(identify(httptest.NewRequest(http.MethodDelete, path, nil), "app-1", alice))
	require.Equal(t, http.StatusOK, rr.Code)

	require.NoError(t, e.db.Model(&model.Comment{}).Where("id = ?", commentID).Count(&count).Error)
	assert.Zero(t, count)

	// Ключи объектов пошли в delete по хранилищу.
	require.Len(t, e.storage.deleted, 1)
	require.Len(t, e.storage.deleted[0], 1)
	assert.True(t, strings.HasPrefix(e.storage.deleted[0][0], "attachments/"), e.storage.deleted[0][0])

	// Каскад убрал строку вложения.
	require.NoError(t, e.db.Model(&model.Attachment{}).Where("comment_id = ?", commentID).Count(&count).Error)
	assert.Zero(t, count)
}
