package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/aqualog/internal/db"
	"github.com/aqualog/internal/service"
	"github.com/gin-gonic/gin"
)

func TestFillDailySeriesPadsMissingDays(t *testing.T) {
	now := time.Date(2024, 7, 5, 15, 0, 0, 0, time.UTC)

	daily := []service.DailyViewStat{
		{Day: time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC), Views: 4, UniqueViews: 2},
	}

	series := fillDailySeries(daily, 7, now)

	if len(series) != 7 {
		t.Fatalf("expected 7 points, got %d", len(series))
	}
	if series[0].Day != "2024-06-29" || series[6].Day != "2024-07-05" {
		t.Fatalf("unexpected window: %s .. %s", series[0].Day, series[6].Day)
	}

	for _, point := range series {
		if point.Day == "2024-07-03" {
			if point.Views != 4 || point.UniqueViews != 2 {
				t.Fatalf("expected recorded day preserved, got %+v", point)
			}
			continue
		}
		if point.Views != 0 || point.UniqueViews != 0 {
			t.Fatalf("expected zero-filled day, got %+v", point)
		}
	}
}

func TestParseStatsDaysPermissive(t *testing.T) {
	cases := map[string]int{
		"":      defaultStatsDays,
		"abc":   defaultStatsDays,
		"7":     7,
		"0":     1,
		"-3":    1,
		"10000": 365,
	}

	for raw, want := range cases {
		if got := parseStatsDays(raw); got != want {
			t.Fatalf("parseStatsDays(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestPublicTankStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api, cleanup := setupTestDB(t)
	defer cleanup()

	tank := db.Tank{Name: "统计缸", Visibility: db.TankVisibilityPublic, UserID: 1}
	if err := db.DB.Create(&tank).Error; err != nil {
		t.Fatalf("failed to seed tank: %v", err)
	}

	// 先产生 3 次浏览（两个访客）
	publicTankRequest(t, api, tank.ID, "")
	viewer := "11111111-2222-3333-4444-555555555555"
	publicTankRequest(t, api, tank.ID, viewer)
	publicTankRequest(t, api, tank.ID, viewer)

	req := httptest.NewRequest(http.MethodGet, "/tanks/"+strconv.Itoa(int(tank.ID))+"/stats?days=30", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: strconv.Itoa(int(tank.ID))}}

	api.PublicTankStats(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body struct {
		Days              int             `json:"days"`
		TotalAllTime      uint64          `json:"totalAllTime"`
		TotalInPeriod     uint64          `json:"totalInPeriod"`
		TotalUniquePeriod uint64          `json:"totalUniquePeriod"`
		Daily             []dailyStatView `json:"daily"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if body.Days != 30 {
		t.Fatalf("expected days 30, got %d", body.Days)
	}
	if body.TotalInPeriod != 3 || body.TotalUniquePeriod != 2 {
		t.Fatalf("expected period totals 3/2, got %d/%d", body.TotalInPeriod, body.TotalUniquePeriod)
	}
	if body.TotalAllTime != 3 {
		t.Fatalf("expected all-time total 3, got %d", body.TotalAllTime)
	}
	if len(body.Daily) != 30 {
		t.Fatalf("expected gap-free 30-day series, got %d points", len(body.Daily))
	}

	today := time.Now().UTC().Format("2006-01-02")
	last := body.Daily[len(body.Daily)-1]
	if last.Day != today || last.Views != 3 || last.UniqueViews != 2 {
		t.Fatalf("unexpected last point: %+v", last)
	}
}

func TestDashboardMetricsNormalizesRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	api, cleanup := setupTestDB(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/metrics?range=bogus", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.DashboardMetrics(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if body["range"] != service.RangeMonth {
		t.Fatalf("expected range to normalize to 30d, got %v", body["range"])
	}
	if _, ok := body["from"]; !ok {
		t.Fatal("expected from field in payload")
	}
}
