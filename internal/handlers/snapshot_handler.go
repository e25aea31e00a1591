package handlers

import (
	"context"

	"movie-records/internal/services"
	"movie-records/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Snapshotter interface {
	Snapshot(ctx context.Context) (*services.SnapshotInfo, error)
}

type SnapshotHandler struct {
	archive Snapshotter
	logger  *logrus.Logger
}

// NewSnapshotHandler accepts a nil archive when object storage is disabled.
func NewSnapshotHandler(archive Snapshotter, logger *logrus.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		archive: archive,
		logger:  logger,
	}
}

// CreateSnapshot godoc
// @Summary Snapshot the catalog
// @Description Upload every movie and genre as one JSON document to object storage
// @Tags snapshots
// @Produce json
// @Success 200 {object} utils.Response "Snapshot uploaded successfully"
// @Failure 500 {object} utils.Response "Upload failed"
// @Failure 503 {object} utils.Response "Snapshot storage is not configured"
// @Router /snapshots [post]
func (h *SnapshotHandler) CreateSnapshot(c *fiber.Ctx) error {
	if h.archive == nil {
		return utils.Send(c, utils.ErrorResponse(fiber.StatusServiceUnavailable, "Snapshot storage is not configured"))
	}

	info, err := h.archive.Snapshot(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to create snapshot")
		return utils.Send(c, utils.ErrorResponse(fiber.StatusInternalServerError, "Failed to upload snapshot"))
	}

	return utils.Send(c, utils.SuccessResponse("Snapshot uploaded successfully").WithSnapshot(info))
}
