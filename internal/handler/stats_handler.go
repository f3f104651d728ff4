package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aqualog/internal/service"
	"github.com/gin-gonic/gin"
)

const defaultStatsDays = 30

// dailyStatView 是面向 SPA 的单日序列点。
type dailyStatView struct {
	Day         string `json:"day"`
	Views       uint64 `json:"views"`
	UniqueViews uint64 `json:"uniqueViews"`
}

// TankStats 返回当前饲主名下鱼缸的浏览汇总。
func (a *API) TankStats(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusNotFound, "鱼缸不存在")
		return
	}

	if _, err := a.tanks.Get(currentUserID(c), id); err != nil {
		respondError(c, http.StatusNotFound, "鱼缸不存在")
		return
	}

	a.respondTankStats(c, id)
}

// respondTankStats 查询窗口汇总并将稀疏日序列补成连续序列。
func (a *API) respondTankStats(c *gin.Context, tankID uint) {
	days := parseStatsDays(c.DefaultQuery("days", ""))
	now := time.Now().UTC()

	stats, err := a.analytics.TankViewStats(tankID, days, now)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取统计失败")
		return
	}

	days = service.ClampStatsDays(days)
	c.JSON(http.StatusOK, gin.H{
		"days":              days,
		"totalAllTime":      stats.TotalAllTime,
		"totalInPeriod":     stats.TotalInPeriod,
		"totalUniquePeriod": stats.TotalUniquePeriod,
		"daily":             fillDailySeries(stats.Daily, days, now),
	})
}

// fillDailySeries 将缺失日期补零，产出覆盖整个窗口的连续序列。
func fillDailySeries(daily []service.DailyViewStat, days int, now time.Time) []dailyStatView {
	byDay := make(map[string]service.DailyViewStat, len(daily))
	for _, stat := range daily {
		byDay[stat.Day.Format("2006-01-02")] = stat
	}

	series := make([]dailyStatView, 0, days)
	start := service.DayOf(now).AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		point := dailyStatView{Day: day}
		if stat, ok := byDay[day]; ok {
			point.Views = stat.Views
			point.UniqueViews = stat.UniqueViews
		}
		series = append(series, point)
	}
	return series
}

// parseStatsDays 解析 days 参数，非法输入回退为默认值而非报错。
func parseStatsDays(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultStatsDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return defaultStatsDays
	}
	return service.ClampStatsDays(days)
}

// DashboardMetrics 返回管理面板的跨实体快照。
// range 符号非法时回退为 30d，保证面板可用。
func (a *API) DashboardMetrics(c *gin.Context) {
	symbol := service.NormalizeRange(strings.TrimSpace(c.DefaultQuery("range", service.RangeMonth)))

	snap, err := a.dashboard.Snapshot(symbol, time.Now().UTC())
	if err != nil {
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "获取指标失败")
		return
	}

	payload := gin.H{
		"range":         snap.Range,
		"totalKeepers":  snap.TotalKeepers,
		"newKeepers":    snap.NewKeepers,
		"activeKeepers": snap.ActiveKeepers,
		"tanks":         gin.H{"total": snap.Tanks.Total, "new": snap.Tanks.New},
		"inhabitants":   gin.H{"total": snap.Inhabitants.Total, "new": snap.Inhabitants.New},
		"maintenance":   gin.H{"total": snap.MaintenanceLogs.Total, "new": snap.MaintenanceLogs.New},
		"readings":      gin.H{"total": snap.WaterReadings.Total, "new": snap.WaterReadings.New},
	}
	if snap.From != nil {
		payload["from"] = snap.From.Format(time.RFC3339)
	} else {
		payload["from"] = nil
	}

	c.JSON(http.StatusOK, payload)
}
