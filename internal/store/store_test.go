package store

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ecomsim/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset(date time.Time) *models.Dataset {
	return &models.Dataset{
		Orders: []models.Order{{
			ID: 1, CustomerID: 1000001, ItemID: 90001, Channel: "app",
			OriginalPrice: 200, DiscountedPrice: 160, ActualAmount: 128,
			CouponDiscount: 0.8, IsCouponUsed: models.FlagYes,
			CouponID: "CP00000001", CouponType: models.CouponTypeDiscount,
			IsDiscounted: true, DiscountRate: 0.2, Date: date,
		}},
		Behaviors: []models.BehaviorEvent{{
			BizNo: 1, OpenID: "op999802", SessionID: "op999802_20251125_1",
			AppPage: "home_page", ActionType: "click", TimeSpent: 1200,
			DeviceType: "mobile", Location: "shanghai",
			ActionTime: date.Add(10 * time.Hour), IPCity: "beijing", Date: date,
		}},
		Customers: []models.CustomerSnapshot{{
			CustomerID: 1000001, OpenID: "op999802", OrdersCnt: 1,
			Sex: 1, Age: 30, LTVTier: "A", OpenDate: date, LastVisitDate: date,
			CityTier: 2, Region: "east", FixedRandomNum: 17, Date: date,
		}},
		Items: []models.ItemSnapshot{{
			ItemID: 90001, Category: "food", IsEligible: models.FlagYes,
			Price: 160, CostPrice: 80, IsDiscounted: true, DiscountRate: 0.2,
			Rating: 4, Origin: "zhejiang", Date: date,
		}},
		Messages: []models.Message{{
			ID: 1, CustomerID: 1000001, Channel: "sms",
			IsSuccess: models.FlagYes, Date: date,
		}},
		Coupons: []models.CouponState{{
			Coupon: models.Coupon{
				ID: "CP00000001", CustomerID: 1000001,
				Status: models.CouponStatusUsed, IssueDate: date,
				ExpireDate: date.AddDate(0, 0, 7), DiscountAmount: 0.8,
				Type: models.CouponTypeDiscount, UsedDate: date, UsedOrderID: 1,
			},
			Date: date,
		}},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteDataset(t *testing.T) {
	dir := t.TempDir()
	st, err := NewStore(dir)
	require.NoError(t, err)

	date := time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC)
	ds := testDataset(date)

	manifest, err := st.WriteDataset(ds, 42, date, date.AddDate(0, 0, 1))
	require.NoError(t, err)

	orders := readCSV(t, filepath.Join(dir, OrdersFile))
	require.Len(t, orders, 2)
	assert.Equal(t, orderHeader, orders[0])
	assert.Equal(t, []string{
		"1", "1000001", "90001", "app", "200", "160", "128.00", "0.8",
		"Y", "CP00000001", "discount", "true", "0.2", "2025/11/25",
	}, orders[1])

	behaviors := readCSV(t, filepath.Join(dir, BehaviorFile))
	require.Len(t, behaviors, 2)
	assert.Equal(t, behaviorHeader, behaviors[0])
	assert.Equal(t, "2025-11-25 10:00:00", behaviors[1][8])
	assert.Equal(t, "2025-11-25", behaviors[1][11])

	customers := readCSV(t, filepath.Join(dir, CustomersFile))
	require.Len(t, customers, 2)
	assert.Equal(t, customerHeader, customers[0])
	assert.Equal(t, "2025/11/25 0:00", customers[1][9])

	items := readCSV(t, filepath.Join(dir, ItemsFile))
	require.Len(t, items, 2)
	assert.Equal(t, itemHeader, items[0])

	messages := readCSV(t, filepath.Join(dir, MessagesFile))
	require.Len(t, messages, 2)
	assert.Equal(t, messageHeader, messages[0])

	coupons := readCSV(t, filepath.Join(dir, CouponsFile))
	require.Len(t, coupons, 2)
	assert.Equal(t, couponHeader, coupons[0])
	assert.Equal(t, []string{
		"CP00000001", "1000001", "used", "2025/11/25", "2025/12/02",
		"0.8", "discount", "2025/11/25", "1", "2025/11/25",
	}, coupons[1])

	require.NotNil(t, manifest)
	_, err = uuid.Parse(manifest.RunID)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), manifest.Seed)
	assert.Equal(t, 1, manifest.Rows[OrdersFile])

	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	require.NoError(t, err)
	var onDisk Manifest
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, manifest.RunID, onDisk.RunID)
	assert.Equal(t, "2025-11-25", onDisk.StartDate)
	assert.Equal(t, "2025-11-26", onDisk.EndDate)
}

func TestWriteDatasetEmptyTablesKeepSchema(t *testing.T) {
	dir := t.TempDir()
	st, err := NewStore(dir)
	require.NoError(t, err)

	date := time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC)
	_, err = st.WriteDataset(&models.Dataset{}, 1, date, date)
	require.NoError(t, err)

	for _, file := range []string{OrdersFile, BehaviorFile, CustomersFile, ItemsFile, MessagesFile, CouponsFile} {
		rows := readCSV(t, filepath.Join(dir, file))
		require.Len(t, rows, 1, "%s must still carry its header", file)
	}
}

func TestUnusedCouponEmitsEmptyUsageFields(t *testing.T) {
	records := couponRecords([]models.CouponState{{
		Coupon: models.Coupon{
			ID: "CP00000002", CustomerID: 1000002,
			Status:     models.CouponStatusAvailable,
			IssueDate:  time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC),
			ExpireDate: time.Date(2025, 12, 2, 0, 0, 0, 0, time.UTC),
			Type:       models.CouponTypeCash, DiscountAmount: 20,
		},
		Date: time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC),
	}})
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0][7])
	assert.Equal(t, "", records[0][8])
	assert.Equal(t, "20", records[0][5])
}
