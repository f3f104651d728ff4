package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aqualog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAnalyticsTestDB(t *testing.T) func() {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Tank{}, &db.TankDailyStat{}, &db.TankViewMark{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

// viewerKey 将短别名填充为 36 位的固定长度访客键
func viewerKey(seed string) string {
	return (seed + strings.Repeat("-", viewerKeyLength))[:viewerKeyLength]
}

func createPublicTank(t *testing.T, name string) db.Tank {
	t.Helper()

	tank := db.Tank{Name: name, Visibility: db.TankVisibilityPublic, UserID: 1}
	if err := db.DB.Create(&tank).Error; err != nil {
		t.Fatalf("failed to create tank: %v", err)
	}
	return tank
}

func TestRecordTankViewCounts(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	tank := createPublicTank(t, "草缸")

	svc := NewAnalyticsService(db.DB)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	result, err := svc.RecordTankView(tank.ID, viewerKey("v1"), base)
	if err != nil {
		t.Fatalf("first view failed: %v", err)
	}
	if !result.UniqueCounted {
		t.Fatal("expected first view to count as unique")
	}
	if !result.Day.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected day: %v", result.Day)
	}

	result, err = svc.RecordTankView(tank.ID, viewerKey("v1"), base.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("second view failed: %v", err)
	}
	if result.UniqueCounted {
		t.Fatal("expected repeat view not to count as unique")
	}

	result, err = svc.RecordTankView(tank.ID, viewerKey("v2"), base.Add(time.Hour))
	if err != nil {
		t.Fatalf("third view failed: %v", err)
	}
	if !result.UniqueCounted {
		t.Fatal("expected second viewer to count as unique")
	}

	var bucket db.TankDailyStat
	if err := db.DB.Where("tank_id = ?", tank.ID).First(&bucket).Error; err != nil {
		t.Fatalf("failed to load daily stat: %v", err)
	}
	if bucket.Views != 3 || bucket.UniqueViews != 2 {
		t.Fatalf("expected views=3 unique=2, got views=%d unique=%d", bucket.Views, bucket.UniqueViews)
	}

	var reloaded db.Tank
	if err := db.DB.First(&reloaded, tank.ID).Error; err != nil {
		t.Fatalf("failed to reload tank: %v", err)
	}
	if reloaded.ViewsCount != 3 {
		t.Fatalf("expected total views 3, got %d", reloaded.ViewsCount)
	}
}

func TestRecordTankViewDedupPerDay(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	tank := createPublicTank(t, "海缸")

	svc := NewAnalyticsService(db.DB)
	base := time.Date(2024, 6, 10, 23, 50, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if _, err := svc.RecordTankView(tank.ID, viewerKey("v1"), base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("view %d failed: %v", i, err)
		}
	}

	// 跨天后同一访客重新计入 UV
	nextDay := base.Add(time.Hour)
	if _, err := svc.RecordTankView(tank.ID, viewerKey("v1"), nextDay); err != nil {
		t.Fatalf("next day view failed: %v", err)
	}

	var buckets []db.TankDailyStat
	if err := db.DB.Where("tank_id = ?", tank.ID).Order("day ASC").Find(&buckets).Error; err != nil {
		t.Fatalf("failed to load buckets: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 daily buckets, got %d", len(buckets))
	}
	if buckets[0].Views != 5 || buckets[0].UniqueViews != 1 {
		t.Fatalf("unexpected day 1 stats: views=%d unique=%d", buckets[0].Views, buckets[0].UniqueViews)
	}
	if buckets[1].Views != 1 || buckets[1].UniqueViews != 1 {
		t.Fatalf("unexpected day 2 stats: views=%d unique=%d", buckets[1].Views, buckets[1].UniqueViews)
	}

	var reloaded db.Tank
	if err := db.DB.First(&reloaded, tank.ID).Error; err != nil {
		t.Fatalf("failed to reload tank: %v", err)
	}
	if reloaded.ViewsCount != 6 {
		t.Fatalf("expected total views 6, got %d", reloaded.ViewsCount)
	}
}

func TestRecordTankViewInvalidViewerKey(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	tank := createPublicTank(t, "新手缸")

	svc := NewAnalyticsService(db.DB)
	now := time.Now().UTC()

	for _, key := range []string{"", "short", strings.Repeat("x", 37)} {
		if _, err := svc.RecordTankView(tank.ID, key, now); !errors.Is(err, ErrInvalidViewerKey) {
			t.Fatalf("expected ErrInvalidViewerKey for %q, got %v", key, err)
		}
	}

	// 校验失败不得写入任何状态
	var bucketCount, markCount int64
	db.DB.Model(&db.TankDailyStat{}).Count(&bucketCount)
	db.DB.Model(&db.TankViewMark{}).Count(&markCount)
	if bucketCount != 0 || markCount != 0 {
		t.Fatalf("expected no rows written, got buckets=%d marks=%d", bucketCount, markCount)
	}

	var reloaded db.Tank
	if err := db.DB.First(&reloaded, tank.ID).Error; err != nil {
		t.Fatalf("failed to reload tank: %v", err)
	}
	if reloaded.ViewsCount != 0 {
		t.Fatalf("expected total views unchanged, got %d", reloaded.ViewsCount)
	}
}

func TestRecordTankViewNotFound(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	private := db.Tank{Name: "隐私缸", Visibility: db.TankVisibilityPrivate, UserID: 1}
	if err := db.DB.Create(&private).Error; err != nil {
		t.Fatalf("failed to create tank: %v", err)
	}

	svc := NewAnalyticsService(db.DB)
	now := time.Now().UTC()

	if _, err := svc.RecordTankView(9999, viewerKey("v1"), now); !errors.Is(err, ErrTankNotFound) {
		t.Fatalf("expected ErrTankNotFound for unknown tank, got %v", err)
	}

	// 非公开鱼缸同样视为不可见
	if _, err := svc.RecordTankView(private.ID, viewerKey("v1"), now); !errors.Is(err, ErrTankNotFound) {
		t.Fatalf("expected ErrTankNotFound for private tank, got %v", err)
	}

	var bucketCount int64
	db.DB.Model(&db.TankDailyStat{}).Count(&bucketCount)
	if bucketCount != 0 {
		t.Fatalf("expected no buckets written, got %d", bucketCount)
	}
}

func TestTankViewStatsWindow(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	tank := createPublicTank(t, "展示缸")

	svc := NewAnalyticsService(db.DB)
	now := time.Now().UTC()

	if _, err := svc.RecordTankView(tank.ID, viewerKey("v1"), now); err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if _, err := svc.RecordTankView(tank.ID, viewerKey("v1"), now); err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if _, err := svc.RecordTankView(tank.ID, viewerKey("v2"), now); err != nil {
		t.Fatalf("view failed: %v", err)
	}

	stats, err := svc.TankViewStats(tank.ID, 30, now)
	if err != nil {
		t.Fatalf("TankViewStats returned error: %v", err)
	}

	if stats.TotalInPeriod != 3 || stats.TotalUniquePeriod != 2 {
		t.Fatalf("expected period totals 3/2, got %d/%d", stats.TotalInPeriod, stats.TotalUniquePeriod)
	}
	if stats.TotalAllTime != 3 {
		t.Fatalf("expected all-time total 3, got %d", stats.TotalAllTime)
	}
	if len(stats.Daily) != 1 {
		t.Fatalf("expected 1 daily row, got %d", len(stats.Daily))
	}
	if stats.Daily[0].Views != 3 || stats.Daily[0].UniqueViews != 2 {
		t.Fatalf("unexpected daily row: %+v", stats.Daily[0])
	}
}

func TestTankViewStatsExcludesOldDays(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	tank := createPublicTank(t, "老缸")

	now := time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC)
	today := DayOf(now)

	// 窗口内一天、窗口外一天
	inRange := db.TankDailyStat{TankID: tank.ID, Day: today.AddDate(0, 0, -3), Views: 4, UniqueViews: 2}
	outOfRange := db.TankDailyStat{TankID: tank.ID, Day: today.AddDate(0, 0, -10), Views: 7, UniqueViews: 5}
	if err := db.DB.Create(&inRange).Error; err != nil {
		t.Fatalf("failed to seed bucket: %v", err)
	}
	if err := db.DB.Create(&outOfRange).Error; err != nil {
		t.Fatalf("failed to seed bucket: %v", err)
	}

	svc := NewAnalyticsService(db.DB)

	stats, err := svc.TankViewStats(tank.ID, 7, now)
	if err != nil {
		t.Fatalf("TankViewStats returned error: %v", err)
	}

	if stats.TotalInPeriod != 4 || stats.TotalUniquePeriod != 2 {
		t.Fatalf("expected 7-day totals 4/2, got %d/%d", stats.TotalInPeriod, stats.TotalUniquePeriod)
	}
	if len(stats.Daily) != 1 {
		t.Fatalf("expected 1 daily row in window, got %d", len(stats.Daily))
	}
}

func TestTankViewStatsClampsDays(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	tank := createPublicTank(t, "夹缝缸")

	svc := NewAnalyticsService(db.DB)
	now := time.Now().UTC()

	if _, err := svc.RecordTankView(tank.ID, viewerKey("v1"), now); err != nil {
		t.Fatalf("view failed: %v", err)
	}

	lower, err := svc.TankViewStats(tank.ID, 0, now)
	if err != nil {
		t.Fatalf("stats with days=0 failed: %v", err)
	}
	one, err := svc.TankViewStats(tank.ID, 1, now)
	if err != nil {
		t.Fatalf("stats with days=1 failed: %v", err)
	}
	if lower.TotalInPeriod != one.TotalInPeriod || len(lower.Daily) != len(one.Daily) {
		t.Fatal("expected days=0 to behave like days=1")
	}

	upper, err := svc.TankViewStats(tank.ID, 10000, now)
	if err != nil {
		t.Fatalf("stats with days=10000 failed: %v", err)
	}
	capped, err := svc.TankViewStats(tank.ID, 365, now)
	if err != nil {
		t.Fatalf("stats with days=365 failed: %v", err)
	}
	if upper.TotalInPeriod != capped.TotalInPeriod || len(upper.Daily) != len(capped.Daily) {
		t.Fatal("expected days=10000 to behave like days=365")
	}
}

func TestTankViewStatsAllTimeIndependentOfBuckets(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	tank := createPublicTank(t, "历史缸")

	// 模拟统计子系统上线前已累计的浏览量：总数大于桶之和
	if err := db.DB.Model(&db.Tank{}).Where("id = ?", tank.ID).
		UpdateColumn("views_count", 100).Error; err != nil {
		t.Fatalf("failed to seed legacy total: %v", err)
	}

	svc := NewAnalyticsService(db.DB)
	now := time.Now().UTC()

	if _, err := svc.RecordTankView(tank.ID, viewerKey("v1"), now); err != nil {
		t.Fatalf("view failed: %v", err)
	}

	stats, err := svc.TankViewStats(tank.ID, 30, now)
	if err != nil {
		t.Fatalf("TankViewStats returned error: %v", err)
	}

	if stats.TotalAllTime != 101 {
		t.Fatalf("expected all-time total 101, got %d", stats.TotalAllTime)
	}
	if stats.TotalInPeriod != 1 {
		t.Fatalf("expected period total 1, got %d", stats.TotalInPeriod)
	}
}

func TestTankViewStatsNotFound(t *testing.T) {
	cleanup := setupAnalyticsTestDB(t)
	defer cleanup()

	svc := NewAnalyticsService(db.DB)

	if _, err := svc.TankViewStats(42, 30, time.Now().UTC()); !errors.Is(err, ErrTankNotFound) {
		t.Fatalf("expected ErrTankNotFound, got %v", err)
	}
}
