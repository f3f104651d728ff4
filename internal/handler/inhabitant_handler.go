package handler

import (
	"errors"
	"net/http"

	"github.com/aqualog/internal/service"
	"github.com/gin-gonic/gin"
)

type inhabitantRequest struct {
	Species  string `json:"species"`
	Nickname string `json:"nickname"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

func (r inhabitantRequest) toInput() service.InhabitantInput {
	return service.InhabitantInput{
		Species:  r.Species,
		Nickname: r.Nickname,
		Quantity: r.Quantity,
		Note:     r.Note,
	}
}

// GetInhabitants 返回鱼缸内的生物列表
func (a *API) GetInhabitants(c *gin.Context) {
	tankID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	inhabitants, err := a.inhabitants.List(currentUserID(c), tankID)
	if err != nil {
		if errors.Is(err, service.ErrTankNotFound) {
			respondError(c, http.StatusNotFound, "鱼缸不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取生物失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"inhabitants": inhabitants})
}

// CreateInhabitant 向鱼缸中添加生物
func (a *API) CreateInhabitant(c *gin.Context) {
	tankID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req inhabitantRequest
	if !bindJSON(c, &req, "请求格式有误") {
		return
	}

	inhabitant, err := a.inhabitants.Create(currentUserID(c), tankID, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTankNotFound):
			respondError(c, http.StatusNotFound, "鱼缸不存在")
		case errors.Is(err, service.ErrInhabitantSpeciesRequired),
			errors.Is(err, service.ErrInhabitantQuantityInvalid):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "添加生物失败")
		}
		return
	}

	c.JSON(http.StatusCreated, inhabitant)
}

// UpdateInhabitant 更新生物信息
func (a *API) UpdateInhabitant(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req inhabitantRequest
	if !bindJSON(c, &req, "请求格式有误") {
		return
	}

	inhabitant, err := a.inhabitants.Update(currentUserID(c), id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInhabitantNotFound):
			respondError(c, http.StatusNotFound, "生物不存在")
		case errors.Is(err, service.ErrInhabitantSpeciesRequired),
			errors.Is(err, service.ErrInhabitantQuantityInvalid):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "更新生物失败")
		}
		return
	}

	c.JSON(http.StatusOK, inhabitant)
}

// DeleteInhabitant 从鱼缸中移除生物
func (a *API) DeleteInhabitant(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.inhabitants.Delete(currentUserID(c), id); err != nil {
		if errors.Is(err, service.ErrInhabitantNotFound) {
			respondError(c, http.StatusNotFound, "生物不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "移除生物失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
