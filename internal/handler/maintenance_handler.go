package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/aqualog/internal/service"
	"github.com/gin-gonic/gin"
)

type maintenanceRequest struct {
	Kind        string     `json:"kind"`
	Note        string     `json:"note"`
	PerformedAt *time.Time `json:"performed_at"`
}

// GetMaintenanceLogs 返回鱼缸的维护日志
func (a *API) GetMaintenanceLogs(c *gin.Context) {
	tankID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	logs, err := a.maintenance.List(currentUserID(c), tankID)
	if err != nil {
		if errors.Is(err, service.ErrTankNotFound) {
			respondError(c, http.StatusNotFound, "鱼缸不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取维护日志失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// CreateMaintenanceLog 记录一次维护操作
func (a *API) CreateMaintenanceLog(c *gin.Context) {
	tankID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req maintenanceRequest
	if !bindJSON(c, &req, "请求格式有误") {
		return
	}

	input := service.MaintenanceInput{Kind: req.Kind, Note: req.Note}
	if req.PerformedAt != nil {
		input.PerformedAt = *req.PerformedAt
	}

	log, err := a.maintenance.Create(currentUserID(c), tankID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTankNotFound):
			respondError(c, http.StatusNotFound, "鱼缸不存在")
		case errors.Is(err, service.ErrMaintenanceKindInvalid):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "记录维护失败")
		}
		return
	}

	c.JSON(http.StatusCreated, log)
}

// DeleteMaintenanceLog 删除维护日志
func (a *API) DeleteMaintenanceLog(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.maintenance.Delete(currentUserID(c), id); err != nil {
		if errors.Is(err, service.ErrMaintenanceNotFound) {
			respondError(c, http.StatusNotFound, "维护日志不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除维护日志失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
