package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-dashboard/models"
)

// Serving hours of the restaurant. Orders outside these slots are not a
// bug in the data, they are simply off-hours (staff meals, test orders)
// and stay out of the popular-hours chart.
var hourSlots = []string{"11am", "12pm", "1pm", "2pm", "6pm", "7pm", "8pm", "9pm"}

var hourLabels = map[int]string{
	11: "11am",
	12: "12pm",
	13: "1pm",
	14: "2pm",
	18: "6pm",
	19: "7pm",
	20: "8pm",
	21: "9pm",
}

// Keyword table for the category rollup, checked in this order. An item
// matching nothing falls into Mains.
var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"Mains", []string{"burger", "steak", "pasta", "pizza", "curry", "salmon", "chicken"}},
	{"Drinks", []string{"wine", "beer", "juice", "soda", "water", "coffee", "tea", "lemonade", "smoothie", "shake"}},
	{"Starters", []string{"salad", "wings", "soup", "bread", "appetizer"}},
	{"Desserts", []string{"cake", "ice cream", "tiramisu", "pudding", "dessert"}},
}

// BuildSnapshot derives the full dashboard aggregate from one fetched
// order window. It performs no I/O and never fails; orders with missing
// fields contribute their zero values.
func BuildSnapshot(orders []models.Order, period string, now time.Time) models.AnalyticsSnapshot {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)

	var todayOrders, yesterdayOrders []models.Order
	for _, o := range orders {
		switch {
		case !o.CreatedAt.Before(today):
			todayOrders = append(todayOrders, o)
		case !o.CreatedAt.Before(yesterday):
			yesterdayOrders = append(yesterdayOrders, o)
		}
	}

	ordersChange, ordersPositive := percentChange(float64(len(todayOrders)), float64(len(yesterdayOrders)))

	var revenueToday, revenueYesterday float64
	pending := 0
	for _, o := range todayOrders {
		revenueToday += o.TotalPrice
		if o.Status == models.StatusPending {
			pending++
		}
	}
	for _, o := range yesterdayOrders {
		revenueYesterday += o.TotalPrice
	}
	revenueChange, revenuePositive := percentChange(revenueToday, revenueYesterday)

	popular, least := rankDishes(todayOrders)

	return models.AnalyticsSnapshot{
		TotalOrdersToday:      len(todayOrders),
		OrdersChange:          ordersChange,
		OrdersChangePositive:  ordersPositive,
		RevenueToday:          fmt.Sprintf("%.2f", revenueToday),
		RevenueChange:         revenueChange,
		RevenueChangePositive: revenuePositive,
		PendingOrders:         pending,
		PopularDish:           popular,
		LeastOrderedDish:      least,
		RecentOrders:          recentOrders(todayOrders, now),
		RevenueByDay:          RevenueByDay(orders, period, now),
		CategorySales:         CategorySales(orders),
	}
}

// percentChange renders (current-previous)/previous as a signed one-decimal
// percentage. A zero baseline reads as no change rather than undefined, and
// zero counts as positive for the up/down styling.
func percentChange(current, previous float64) (string, bool) {
	if previous == 0 {
		return "+0%", true
	}
	pct := (current - previous) / previous * 100
	if pct >= 0 {
		return fmt.Sprintf("+%.1f%%", pct), true
	}
	return fmt.Sprintf("%.1f%%", pct), false
}

// rankDishes totals item quantities across today's orders and picks the
// extremes. Ties keep the dish encountered first in the input order.
func rankDishes(todayOrders []models.Order) (popular, least models.DishCount) {
	counts := make(map[string]int)
	var names []string
	for _, o := range todayOrders {
		for _, item := range o.Items {
			if _, seen := counts[item.Name]; !seen {
				names = append(names, item.Name)
			}
			counts[item.Name] += item.Quantity
		}
	}

	popular = models.DishCount{Name: "N/A"}
	least = models.DishCount{Name: "N/A"}
	for i, name := range names {
		if i == 0 || counts[name] > popular.Count {
			popular = models.DishCount{Name: name, Count: counts[name]}
		}
		if i == 0 || counts[name] < least.Count {
			least = models.DishCount{Name: name, Count: counts[name]}
		}
	}
	return popular, least
}

// recentOrders returns today's orders newest-first, capped at ten, with
// coarse relative-time labels rendered once at aggregation time.
func recentOrders(todayOrders []models.Order, now time.Time) []models.RecentOrder {
	sorted := make([]models.Order, len(todayOrders))
	copy(sorted, todayOrders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > 10 {
		sorted = sorted[:10]
	}

	recent := make([]models.RecentOrder, 0, len(sorted))
	for _, o := range sorted {
		items := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, item.Name)
		}
		recent = append(recent, models.RecentOrder{
			ID:           o.ID,
			TableNumber:  o.TableName(),
			CustomerName: o.DisplayCustomer(),
			Items:        items,
			Total:        o.TotalPrice,
			Status:       o.Status,
			Timestamp:    TimeAgo(o.CreatedAt, now),
			CreatedAt:    o.CreatedAt.Format(time.RFC3339),
		})
	}
	return recent
}

// daysForPeriod: today=1, week=7, anything else=30.
func daysForPeriod(period string) int {
	switch period {
	case models.PeriodToday:
		return 1
	case models.PeriodWeek:
		return 7
	default:
		return 30
	}
}

// weekdayBuckets seeds the chart buckets for the last n days, oldest
// first, keyed by weekday short name. Windows longer than a week reuse
// the same seven keys; that aliasing is part of the chart's contract.
func weekdayBuckets(n int, now time.Time) []string {
	var keys []string
	seen := make(map[string]bool)
	for i := n - 1; i >= 0; i-- {
		name := now.AddDate(0, 0, -i).Weekday().String()[:3]
		if !seen[name] {
			seen[name] = true
			keys = append(keys, name)
		}
	}
	return keys
}

// RevenueByDay accumulates order totals into weekday buckets covering the
// period's day count.
func RevenueByDay(orders []models.Order, period string, now time.Time) []models.RevenuePoint {
	keys := weekdayBuckets(daysForPeriod(period), now)
	totals := make(map[string]float64, len(keys))
	for _, k := range keys {
		totals[k] = 0
	}

	for _, o := range orders {
		name := o.CreatedAt.Weekday().String()[:3]
		if _, ok := totals[name]; ok {
			totals[name] += o.TotalPrice
		}
	}

	points := make([]models.RevenuePoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, models.RevenuePoint{Date: k, Revenue: round2(totals[k])})
	}
	return points
}

// OrdersOverTime buckets order counts and revenue over the same weekday
// slots; 7 slots for a week, 30 days folded onto 7 otherwise.
func OrdersOverTime(orders []models.Order, period string, now time.Time) models.OrdersOverTime {
	days := 30
	if period == models.PeriodWeek {
		days = 7
	}
	keys := weekdayBuckets(days, now)
	counts := make(map[string]int, len(keys))
	revenue := make(map[string]float64, len(keys))
	for _, k := range keys {
		counts[k] = 0
		revenue[k] = 0
	}

	for _, o := range orders {
		name := o.CreatedAt.Weekday().String()[:3]
		if _, ok := counts[name]; ok {
			counts[name]++
			revenue[name] += o.TotalPrice
		}
	}

	out := models.OrdersOverTime{
		OrdersOverTime: make([]models.OrdersPoint, 0, len(keys)),
		RevenueData:    make([]models.RevenuePoint, 0, len(keys)),
	}
	for _, k := range keys {
		out.OrdersOverTime = append(out.OrdersOverTime, models.OrdersPoint{Date: k, Orders: counts[k]})
		out.RevenueData = append(out.RevenueData, models.RevenuePoint{Date: k, Revenue: round2(revenue[k])})
	}
	return out
}

// CategorySales rolls line-item revenue up into the four fixed menu
// categories and reports each as a share of the total.
func CategorySales(orders []models.Order) []models.CategorySale {
	sales := make(map[string]float64, len(categoryKeywords))
	for _, c := range categoryKeywords {
		sales[c.name] = 0
	}

	for _, o := range orders {
		for _, item := range o.Items {
			sales[classifyItem(item.Name)] += item.Price * float64(item.Quantity)
		}
	}

	var total float64
	for _, v := range sales {
		total += v
	}

	out := make([]models.CategorySale, 0, len(categoryKeywords))
	for _, c := range categoryKeywords {
		pct := 0
		if total > 0 {
			pct = int(math.Round(sales[c.name] / total * 100))
		}
		out = append(out, models.CategorySale{
			Name:       c.name,
			Value:      round2(sales[c.name]),
			Percentage: pct,
		})
	}
	return out
}

func classifyItem(name string) string {
	lower := strings.ToLower(name)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.name
			}
		}
	}
	return "Mains"
}

// PopularHours counts today's orders per labeled service-hour slot.
// Orders outside the slots are excluded.
func PopularHours(orders []models.Order, now time.Time) []models.HourSlot {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	counts := make(map[string]int, len(hourSlots))
	for _, h := range hourSlots {
		counts[h] = 0
	}

	for _, o := range orders {
		if o.CreatedAt.Before(today) {
			continue
		}
		if label, ok := hourLabels[o.CreatedAt.Hour()]; ok {
			counts[label]++
		}
	}

	out := make([]models.HourSlot, 0, len(hourSlots))
	for _, h := range hourSlots {
		out = append(out, models.HourSlot{Hour: h, Orders: counts[h]})
	}
	return out
}

// ActivityRows maps raw orders onto the recent-activity table rows used
// by the analytics page and its CSV export.
func ActivityRows(orders []models.Order) []models.ActivityRow {
	rows := make([]models.ActivityRow, 0, len(orders))
	for _, o := range orders {
		items := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
		}

		status := "Pending"
		switch o.Status {
		case models.StatusServed:
			status = "Completed"
		case models.StatusCancelled:
			status = "Cancelled"
		}

		rows = append(rows, models.ActivityRow{
			ID:      o.ID,
			Date:    o.CreatedAt.UTC().Format("2006-01-02"),
			Table:   o.TableName(),
			Items:   strings.Join(items, ", "),
			Amount:  o.TotalPrice,
			Payment: "Card",
			Status:  status,
		})
	}
	return rows
}

// TimeAgo renders a coarse relative label: seconds collapse to "Just now",
// then minutes, hours, days. Nothing finer than days is reported.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "Just now"
	}

	mins := int(now.Sub(t).Minutes())
	if mins < 1 {
		return "Just now"
	}
	if mins == 1 {
		return "1 min ago"
	}
	if mins < 60 {
		return fmt.Sprintf("%d mins ago", mins)
	}

	hours := mins / 60
	if hours == 1 {
		return "1 hour ago"
	}
	if hours < 24 {
		return fmt.Sprintf("%d hours ago", hours)
	}

	days := hours / 24
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
