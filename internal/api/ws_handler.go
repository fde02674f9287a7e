package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"studentfolio/internal/api/middleware"
	"studentfolio/internal/notify"
)

const (
	wsAuthTimeout  = 10 * time.Second
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 5 * time.Second
)

// WsHandler 负责处理 WebSocket 鉴权与安全提示转发。
type WsHandler struct {
	redisClient    *redis.Client
	validator      middleware.TokenValidator
	logger         *slog.Logger
	upgrader       websocket.Upgrader
	allowedOrigins []string
}

// NewWsHandler 构造 WebSocket 处理器。
func NewWsHandler(redisClient *redis.Client, validator middleware.TokenValidator, logger *slog.Logger, allowedOrigins []string) *WsHandler {
	h := &WsHandler{
		redisClient:    redisClient,
		validator:      validator,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *WsHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(h.allowedOrigins) == 0 {
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

type wsAuthMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

var errAuthRequired = errors.New("auth required")

// HandleConnection 负责升级连接并启动读写循环。
// 第一条消息必须是 {"type":"auth","token":"..."}，避免 token 出现在 URL 中。
func (h *WsHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	baseLog := h.logger.With(slog.String("client_ip", c.ClientIP()))

	userID, err := h.authenticate(conn)
	if err != nil {
		baseLog.Warn("websocket authentication failed", slog.Any("error", err))
		return
	}

	userLog := baseLog.With(slog.String("user_id", userID.String()))
	userLog.Info("websocket authenticated")

	errCh := make(chan error, 2)
	go h.readLoop(ctx, conn, errCh, cancel)
	go h.subscribeLoop(ctx, conn, userID, errCh, cancel, userLog)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			userLog.Info("websocket connection closed", slog.Any("error", err))
		} else {
			userLog.Info("websocket connection closed")
		}
	}
}

func (h *WsHandler) authenticate(conn *websocket.Conn) (uuid.UUID, error) {
	_ = conn.SetReadDeadline(time.Now().Add(wsAuthTimeout))
	defer conn.SetReadDeadline(time.Time{})

	_, message, err := conn.ReadMessage()
	if err != nil {
		return uuid.Nil, fmt.Errorf("read auth message: %w", err)
	}

	var authMsg wsAuthMessage
	if err := json.Unmarshal(message, &authMsg); err != nil {
		writeClose(conn, websocket.ClosePolicyViolation, "invalid auth payload")
		return uuid.Nil, fmt.Errorf("decode auth payload: %w", err)
	}
	if authMsg.Type != "auth" || authMsg.Token == "" {
		writeClose(conn, websocket.ClosePolicyViolation, "auth required")
		return uuid.Nil, errAuthRequired
	}

	claims, err := h.validator.ValidateToken(authMsg.Token)
	if err != nil {
		writeClose(conn, websocket.ClosePolicyViolation, "unauthorized")
		return uuid.Nil, fmt.Errorf("validate token: %w", err)
	}
	userID, err := claims.UserID()
	if err != nil {
		writeClose(conn, websocket.ClosePolicyViolation, "unauthorized")
		return uuid.Nil, err
	}
	return userID, nil
}

// readLoop 只用于检测客户端断开，客户端的后续消息被忽略。
func (h *WsHandler) readLoop(ctx context.Context, conn *websocket.Conn, errCh chan<- error, cancel context.CancelFunc) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			select {
			case <-ctx.Done():
			case errCh <- fmt.Errorf("read message: %w", err):
			}
			cancel()
			return
		}
	}
}

func writeClose(conn *websocket.Conn, code int, text string) {
	deadline := time.Now().Add(wsWriteTimeout)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
}

func (h *WsHandler) subscribeLoop(
	ctx context.Context,
	conn *websocket.Conn,
	userID uuid.UUID,
	errCh chan<- error,
	cancel context.CancelFunc,
	log *slog.Logger,
) {
	defer cancel()

	channel := notify.Channel(userID)
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	log.Info("subscribed to redis channel", slog.String("channel", channel))

	ch := pubsub.Channel()
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	fail := func(err error) {
		select {
		case <-ctx.Done():
		case errCh <- err:
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				fail(errors.New("pubsub channel closed"))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				fail(fmt.Errorf("write message: %w", err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(wsWriteTimeout)); err != nil {
				fail(fmt.Errorf("write ping: %w", err))
				return
			}
		}
	}
}
