package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/aqualog/internal/service"
	"github.com/gin-gonic/gin"
)

type readingRequest struct {
	PH           *float64   `json:"ph"`
	TemperatureC *float64   `json:"temperature_c"`
	NitrateMgL   *float64   `json:"nitrate_mg_l"`
	AmmoniaMgL   *float64   `json:"ammonia_mg_l"`
	MeasuredAt   *time.Time `json:"measured_at"`
}

// GetWaterReadings 返回鱼缸的水质记录
func (a *API) GetWaterReadings(c *gin.Context) {
	tankID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	readings, err := a.readings.List(currentUserID(c), tankID)
	if err != nil {
		if errors.Is(err, service.ErrTankNotFound) {
			respondError(c, http.StatusNotFound, "鱼缸不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取水质记录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"readings": readings})
}

// CreateWaterReading 记录一次水质测量
func (a *API) CreateWaterReading(c *gin.Context) {
	tankID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req readingRequest
	if !bindJSON(c, &req, "请求格式有误") {
		return
	}

	input := service.ReadingInput{
		PH:           req.PH,
		TemperatureC: req.TemperatureC,
		NitrateMgL:   req.NitrateMgL,
		AmmoniaMgL:   req.AmmoniaMgL,
	}
	if req.MeasuredAt != nil {
		input.MeasuredAt = *req.MeasuredAt
	}

	reading, err := a.readings.Create(currentUserID(c), tankID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTankNotFound):
			respondError(c, http.StatusNotFound, "鱼缸不存在")
		case errors.Is(err, service.ErrReadingEmpty), errors.Is(err, service.ErrReadingOutOfRange):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "记录水质失败")
		}
		return
	}

	c.JSON(http.StatusCreated, reading)
}

// DeleteWaterReading 删除水质记录
func (a *API) DeleteWaterReading(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.readings.Delete(currentUserID(c), id); err != nil {
		if errors.Is(err, service.ErrReadingNotFound) {
			respondError(c, http.StatusNotFound, "水质记录不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除水质记录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
