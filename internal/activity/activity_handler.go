package activity

import (
	"net/http"
	"strconv"
	"time"

	"go-peval/internal/employee"
	"go-peval/internal/shared/apperror"
	"go-peval/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ActivityLogResponse struct {
	ID           string    `json:"id"`
	ActorID      string    `json:"actorId"`
	ActorName    string    `json:"actorName,omitempty"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resourceType"`
	ResourceID   string    `json:"resourceId"`
	Detail       string    `json:"detail,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

type Handler struct {
	repo         Repository
	employeeRepo employee.Repository
	logger       *zap.Logger
}

func NewHandler(repo Repository, employeeRepo employee.Repository, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("activity.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("activity.handler")
	}
	return &Handler{repo: repo, employeeRepo: employeeRepo, logger: l}
}

// GetByResource lists the audit trail of one resource, newest first, with
// actor names resolved where the actor is a known employee.
func (h *Handler) GetByResource(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}

	logs, err := h.repo.FindByResource(c.Request.Context(), c.Param("resourceType"), c.Param("resourceId"), limit)
	if err != nil {
		he := apperror.ToHTTP(err)
		response.Error(c, he.Status, he.Code, he.Message, he.Details)
		return
	}

	var actorIDs []string
	seen := map[string]bool{}
	for _, entry := range logs {
		if _, err := uuid.Parse(entry.ActorID); err != nil {
			continue
		}
		if !seen[entry.ActorID] {
			seen[entry.ActorID] = true
			actorIDs = append(actorIDs, entry.ActorID)
		}
	}

	actors := map[string]employee.Employee{}
	if len(actorIDs) > 0 {
		actors, err = h.employeeRepo.FindByIDs(c.Request.Context(), actorIDs)
		if err != nil {
			// name enrichment is best effort
			h.logger.Warn("resolve actor names failed", zap.Error(err))
			actors = map[string]employee.Employee{}
		}
	}

	out := make([]ActivityLogResponse, len(logs))
	for i, entry := range logs {
		out[i] = ActivityLogResponse{
			ID:           entry.ID.String(),
			ActorID:      entry.ActorID,
			Action:       entry.Action,
			ResourceType: entry.ResourceType,
			ResourceID:   entry.ResourceID,
			Detail:       entry.Detail,
			OccurredAt:   entry.OccurredAt,
		}
		if actor, ok := actors[entry.ActorID]; ok {
			out[i].ActorName = actor.FullName
		}
	}

	response.Success(c, http.StatusOK, out, nil)
}
