package handler

import (
	"errors"
	"net/http"

	"github.com/aqualog/internal/service"
	"github.com/gin-gonic/gin"
)

type tankRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WaterType   string `json:"water_type"`
	VolumeLiter int    `json:"volume_liter"`
	Visibility  string `json:"visibility"`
	CoverURL    string `json:"cover_url"`
}

func (r tankRequest) toInput() service.TankInput {
	return service.TankInput{
		Name:        r.Name,
		Description: r.Description,
		WaterType:   r.WaterType,
		VolumeLiter: r.VolumeLiter,
		Visibility:  r.Visibility,
		CoverURL:    r.CoverURL,
	}
}

// GetTanks 返回当前饲主的鱼缸列表
func (a *API) GetTanks(c *gin.Context) {
	filter := service.TankFilter{
		Search:     c.Query("search"),
		Visibility: c.Query("visibility"),
		WaterType:  c.Query("water_type"),
	}

	tanks, err := a.tanks.List(currentUserID(c), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取鱼缸失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tanks": tanks})
}

// GetTank 返回单个鱼缸详情
func (a *API) GetTank(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	tank, err := a.tanks.Get(currentUserID(c), id)
	if err != nil {
		if errors.Is(err, service.ErrTankNotFound) {
			respondError(c, http.StatusNotFound, "鱼缸不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取鱼缸失败")
		return
	}

	c.JSON(http.StatusOK, tank)
}

// CreateTank 新建鱼缸
func (a *API) CreateTank(c *gin.Context) {
	var req tankRequest
	if !bindJSON(c, &req, "请求格式有误") {
		return
	}

	tank, err := a.tanks.Create(currentUserID(c), req.toInput())
	if err != nil {
		if isTankInputError(err) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "创建鱼缸失败")
		return
	}

	c.JSON(http.StatusCreated, tank)
}

// UpdateTank 更新鱼缸
func (a *API) UpdateTank(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req tankRequest
	if !bindJSON(c, &req, "请求格式有误") {
		return
	}

	tank, err := a.tanks.Update(currentUserID(c), id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTankNotFound):
			respondError(c, http.StatusNotFound, "鱼缸不存在")
		case isTankInputError(err):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "更新鱼缸失败")
		}
		return
	}

	c.JSON(http.StatusOK, tank)
}

// DeleteTank 删除鱼缸
func (a *API) DeleteTank(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.tanks.Delete(currentUserID(c), id); err != nil {
		if errors.Is(err, service.ErrTankNotFound) {
			respondError(c, http.StatusNotFound, "鱼缸不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除鱼缸失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func isTankInputError(err error) bool {
	return errors.Is(err, service.ErrTankNameRequired) ||
		errors.Is(err, service.ErrTankVisibilityInvalid) ||
		errors.Is(err, service.ErrTankWaterTypeInvalid)
}
