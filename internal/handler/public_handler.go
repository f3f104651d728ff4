package handler

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

const (
	viewerCookieName   = "al_viewer_id"
	viewerCookieMaxAge = 365 * 24 * 60 * 60
)

// ShowTank 返回公开鱼缸的展示数据，并以尽力而为的方式记录浏览。
// 统计失败不会影响展示页本身。
func (a *API) ShowTank(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "鱼缸不存在")
		return
	}

	tank, err := a.tanks.GetPublic(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "鱼缸不存在")
		return
	}

	viewerID := a.ensureViewerID(c)

	uniqueCounted := false
	if a.analytics != nil {
		if result, recordErr := a.analytics.RecordTankView(tank.ID, viewerID, time.Now().UTC()); recordErr == nil {
			uniqueCounted = result.UniqueCounted
		} else {
			c.Error(recordErr) // 不中断展示，但记录错误
		}
	}

	descriptionHTML, err := renderMarkdown(tank.Description)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "渲染内容失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              tank.ID,
		"name":            tank.Name,
		"descriptionHtml": descriptionHTML,
		"waterType":       tank.WaterType,
		"volumeLiter":     tank.VolumeLiter,
		"coverUrl":        tank.CoverURL,
		"viewsCount":      tank.ViewsCount,
		"uniqueCounted":   uniqueCounted,
	})
}

func (a *API) ensureViewerID(c *gin.Context) string {
	if id, err := c.Cookie(viewerCookieName); err == nil && strings.TrimSpace(id) != "" {
		return id
	}

	viewerID := uuid.NewString()
	secure := c.Request.TLS != nil

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     viewerCookieName,
		Value:    viewerID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		MaxAge:   viewerCookieMaxAge,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})

	return viewerID
}

// PublicTankStats 返回公开鱼缸的浏览汇总，days 越界静默收拢。
func (a *API) PublicTankStats(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "鱼缸不存在")
		return
	}

	if _, err := a.tanks.GetPublic(id); err != nil {
		respondError(c, http.StatusNotFound, "鱼缸不存在")
		return
	}

	a.respondTankStats(c, id)
}

func renderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return sanitizer.Sanitize(buf.String()), nil
}
