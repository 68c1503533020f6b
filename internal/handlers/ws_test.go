package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drooschuck/funwithflag/internal/catalog"
	"github.com/drooschuck/funwithflag/internal/quiz"
	"github.com/drooschuck/funwithflag/internal/ws"
)

// wsTestRouter assembles the push pipeline the way the server wires it at
// boot: answers land over HTTP, the controller pushes to the hub, the hub
// fans out to the subscribed sockets.
func wsTestRouter() (*gin.Engine, *ws.Hub) {
	gin.SetMode(gin.TestMode)

	questions := []catalog.Question{
		{
			ImageURL:      "https://flagcdn.com/w320/fr.png",
			Options:       []string{"Italy", "France", "Netherlands", "Russia"},
			CorrectAnswer: "France",
		},
	}

	controller := quiz.NewController(
		questions,
		noFireScheduler{},
		staticProvider{text: "facts"},
		zap.NewNop(),
		3500*time.Millisecond,
		1500*time.Millisecond,
	)

	hub := ws.NewHub()
	controller.SetListener(func(snap quiz.Snapshot) {
		hub.Broadcast(snap.SessionID, ws.Message{Type: "state", Data: snap})
	})

	sh := NewSessionHandler(controller)
	wh := NewWSHandler(controller, hub)

	r := gin.New()
	sessions := r.Group("/api/v1/sessions")
	{
		sessions.POST("", sh.CreateSession)
		sessions.POST("/:id/answer", sh.SubmitAnswer)
		sessions.GET("/:id/ws", wh.HandleWebSocket)
	}
	return r, hub
}

func TestWebSocket_PushesSnapshotOnAnswer(t *testing.T) {
	r, hub := wsTestRouter()
	created := createSession(t, r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/" + created.SessionID + "/ws"
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	// The dial returns before the handler registers the socket with the hub.
	require.Eventually(t, func() bool {
		return hub.CountConnections(created.SessionID) == 1
	}, time.Second, 5*time.Millisecond, "the socket never registered with the hub")

	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+created.SessionID+"/answer", AnswerRequest{Option: "Italy"})
	require.Equal(t, http.StatusOK, w.Code)

	var frame struct {
		Type string        `json:"type"`
		Data quiz.Snapshot `json:"data"`
	}
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, client.ReadJSON(&frame))

	assert.Equal(t, "state", frame.Type)
	assert.Equal(t, created.SessionID, frame.Data.SessionID)
	assert.Equal(t, quiz.EvaluationIncorrect, frame.Data.Evaluation)
	assert.Equal(t, "Italy", frame.Data.SelectedAnswer)
	assert.Equal(t, 0, frame.Data.Score)
}

func TestWebSocket_UnknownSessionRejected(t *testing.T) {
	r, _ := wsTestRouter()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/sessions/missing/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
