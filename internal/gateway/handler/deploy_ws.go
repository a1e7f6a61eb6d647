package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	buildsvc "sitegate/internal/gateway/service/build"
)

const (
	deployWSWriteWait = 10 * time.Second
	deployWSPongWait  = 60 * time.Second
	deployWSPingEvery = (deployWSPongWait * 9) / 10
)

var deployWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type deployWSOutbound struct {
	Type       string `json:"type"`
	TenantID   string `json:"tenantId,omitempty"`
	Status     string `json:"status,omitempty"`
	Conclusion string `json:"conclusion,omitempty"`
	Branch     string `json:"branch,omitempty"`
	URL        string `json:"url,omitempty"`
}

// DeployWSHandler streams rebuild status over a websocket.
type DeployWSHandler struct {
	build *buildsvc.Service
}

func NewDeployWSHandler(build *buildsvc.Service) *DeployWSHandler {
	return &DeployWSHandler{build: build}
}

func (h *DeployWSHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requestTenant(w, r)
	if !ok {
		return
	}

	conn, err := deployWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(deployWSPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(deployWSPongWait))
	})

	writeCh := make(chan deployWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(deployWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(deployWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(deployWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	statusCh, unsubscribe := h.build.Watch(tenantID)
	defer unsubscribe()

	pushDeployWS(writeCh, deployWSOutbound{Type: "subscribed", TenantID: tenantID})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case status, ok := <-statusCh:
				if !ok {
					return
				}
				pushDeployWS(writeCh, deployWSOutbound{
					Type:       "deploy_status",
					TenantID:   status.TenantID,
					Status:     status.Status,
					Conclusion: status.Conclusion,
					Branch:     status.Branch,
					URL:        status.URL,
				})
			}
		}
	}()

	// Consume control frames until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			cancel()
			<-writerDone
			return
		}
	}
}

func pushDeployWS(ch chan<- deployWSOutbound, out deployWSOutbound) {
	select {
	case ch <- out:
	default:
	}
}
