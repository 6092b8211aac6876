package health

import (
	"net/http"

	"userdash/internal/cache"
	"userdash/internal/http/responses"
)

type Handler struct {
	redis *cache.RedisClient // nil when Redis is disabled
}

func NewHandler(redisClient *cache.RedisClient) *Handler {
	return &Handler{redis: redisClient}
}

// Check reports the dashboard's own health plus the optional Redis ping.
// The remote directory is deliberately not probed here; its availability
// surfaces through the store status instead.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	res := map[string]string{"status": "ok"}

	if h.redis != nil {
		if err := h.redis.Ping(r.Context()); err != nil {
			res["redis"] = "down"
		} else {
			res["redis"] = "ok"
		}
	}

	responses.WriteJSON(w, http.StatusOK, res)
}
