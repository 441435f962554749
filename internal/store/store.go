package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ecomsim/internal/models"

	"github.com/google/uuid"
)

// Output file names.
const (
	OrdersFile    = "daily_incremental_order.csv"
	BehaviorFile  = "daily_incremental_cust_app_behavior.csv"
	CustomersFile = "full_sync_cust.csv"
	ItemsFile     = "full_sync_item.csv"
	MessagesFile  = "daily_incremental_message.csv"
	CouponsFile   = "daily_incremental_coupon.csv"
	ManifestFile  = "manifest.json"
)

const (
	dateSlash       = "2006/01/02"
	dateISO         = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// Store writes the accumulated dataset as flat header-bearing CSV files plus
// a run manifest. It is the only I/O surface of the simulator, invoked once
// at the end of a run; failures propagate rather than partially succeed.
type Store struct {
	dir string
}

// Manifest describes one completed run.
type Manifest struct {
	RunID       string         `json:"run_id"`
	Seed        int64          `json:"seed"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	GeneratedAt time.Time      `json:"generated_at"`
	Rows        map[string]int `json:"rows"`
}

// NewStore creates the output directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// WriteDataset writes the six tables and the manifest.
func (s *Store) WriteDataset(ds *models.Dataset, seed int64, start, end time.Time) (*Manifest, error) {
	tables := []struct {
		file    string
		header  []string
		records [][]string
	}{
		{OrdersFile, orderHeader, orderRecords(ds.Orders)},
		{BehaviorFile, behaviorHeader, behaviorRecords(ds.Behaviors)},
		{CustomersFile, customerHeader, customerRecords(ds.Customers)},
		{ItemsFile, itemHeader, itemRecords(ds.Items)},
		{MessagesFile, messageHeader, messageRecords(ds.Messages)},
		{CouponsFile, couponHeader, couponRecords(ds.Coupons)},
	}

	m := &Manifest{
		RunID:       uuid.New().String(),
		Seed:        seed,
		StartDate:   start.Format(dateISO),
		EndDate:     end.Format(dateISO),
		GeneratedAt: time.Now().UTC(),
		Rows:        make(map[string]int, len(tables)),
	}

	for _, t := range tables {
		if err := s.writeCSV(t.file, t.header, t.records); err != nil {
			return nil, err
		}
		m.Rows[t.file] = len(t.records)
	}

	if err := s.writeManifest(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) writeCSV(name string, header []string, records [][]string) error {
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}
	return f.Close()
}

func (s *Store) writeManifest(m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, ManifestFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

var orderHeader = []string{
	"order_id", "cust_id", "item_id", "channel",
	"original_price", "discounted_price", "actual_amount", "coupon_discount",
	"is_coupon_used", "coupon_id", "coupon_type",
	"is_discounted", "discount_rate", "grass_date",
}

func orderRecords(orders []models.Order) [][]string {
	out := make([][]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, []string{
			strconv.FormatInt(o.ID, 10),
			strconv.FormatInt(o.CustomerID, 10),
			strconv.FormatInt(o.ItemID, 10),
			o.Channel,
			strconv.FormatInt(o.OriginalPrice, 10),
			strconv.FormatInt(o.DiscountedPrice, 10),
			formatMoney(o.ActualAmount),
			formatFloat(o.CouponDiscount),
			o.IsCouponUsed,
			o.CouponID,
			o.CouponType,
			strconv.FormatBool(o.IsDiscounted),
			formatFloat(o.DiscountRate),
			o.Date.Format(dateSlash),
		})
	}
	return out
}

var behaviorHeader = []string{
	"biz_no", "open_id", "session_id", "app_page", "action_type",
	"time_spent", "device_type", "location", "action_time", "ip_city",
	"page_value", "grass_date",
}

func behaviorRecords(events []models.BehaviorEvent) [][]string {
	out := make([][]string, 0, len(events))
	for _, ev := range events {
		out = append(out, []string{
			strconv.FormatInt(ev.BizNo, 10),
			ev.OpenID,
			ev.SessionID,
			ev.AppPage,
			ev.ActionType,
			strconv.Itoa(ev.TimeSpent),
			ev.DeviceType,
			ev.Location,
			ev.ActionTime.Format(timestampLayout),
			ev.IPCity,
			ev.PageValue,
			ev.Date.Format(dateISO),
		})
	}
	return out
}

var customerHeader = []string{
	"cust_id", "open_id", "orders_cnt", "sex", "n_age", "ltv_360d",
	"open_date", "last_visit_date", "city_level", "create_timestamp",
	"region", "fixed_random_num", "grass_date",
}

func customerRecords(rows []models.CustomerSnapshot) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			strconv.FormatInt(r.CustomerID, 10),
			r.OpenID,
			strconv.Itoa(r.OrdersCnt),
			strconv.Itoa(r.Sex),
			strconv.Itoa(r.Age),
			r.LTVTier,
			r.OpenDate.Format(dateSlash),
			r.LastVisitDate.Format(dateSlash),
			strconv.Itoa(r.CityTier),
			r.Date.Format(dateSlash) + " 0:00",
			r.Region,
			strconv.Itoa(r.FixedRandomNum),
			r.Date.Format(dateSlash),
		})
	}
	return out
}

var itemHeader = []string{
	"item_id", "category", "is_eligible", "price", "cost_price",
	"is_discounted", "discount_rate", "rating", "origin", "grass_date",
}

func itemRecords(rows []models.ItemSnapshot) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			strconv.FormatInt(r.ItemID, 10),
			r.Category,
			r.IsEligible,
			strconv.FormatInt(r.Price, 10),
			strconv.FormatInt(r.CostPrice, 10),
			strconv.FormatBool(r.IsDiscounted),
			formatFloat(r.DiscountRate),
			strconv.Itoa(r.Rating),
			r.Origin,
			r.Date.Format(dateSlash),
		})
	}
	return out
}

var messageHeader = []string{
	"message_id", "cust_id", "channel", "is_success", "grass_date",
}

func messageRecords(rows []models.Message) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			strconv.FormatInt(r.ID, 10),
			strconv.FormatInt(r.CustomerID, 10),
			r.Channel,
			r.IsSuccess,
			r.Date.Format(dateSlash),
		})
	}
	return out
}

var couponHeader = []string{
	"coupon_id", "cust_id", "status", "issue_date", "expire_date",
	"discount_amount", "coupon_type", "used_date", "used_order_id",
	"grass_date",
}

func couponRecords(rows []models.CouponState) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		usedDate := ""
		if !r.Coupon.UsedDate.IsZero() {
			usedDate = r.Coupon.UsedDate.Format(dateSlash)
		}
		usedOrderID := ""
		if r.Coupon.UsedOrderID != 0 {
			usedOrderID = strconv.FormatInt(r.Coupon.UsedOrderID, 10)
		}
		out = append(out, []string{
			r.Coupon.ID,
			strconv.FormatInt(r.Coupon.CustomerID, 10),
			r.Coupon.Status,
			r.Coupon.IssueDate.Format(dateSlash),
			r.Coupon.ExpireDate.Format(dateSlash),
			formatFloat(r.Coupon.DiscountAmount),
			r.Coupon.Type,
			usedDate,
			usedOrderID,
			r.Date.Format(dateSlash),
		})
	}
	return out
}

// formatMoney keeps two decimals for settled amounts.
func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatFloat emits the shortest exact representation (rates, denominations).
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
