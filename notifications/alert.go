package notifications

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-dashboard/models"
)

// Alerter is the best-effort local alert hook fired on every appended
// notification. Implementations must swallow their own failures; the feed
// state never depends on an alert landing.
type Alerter interface {
	NewOrder(n models.Notification)
}

// BellAlerter is the headless counterpart of the dashboard's notification
// sound and desktop popup: a terminal bell plus a log line.
type BellAlerter struct {
	Log *logrus.Logger
}

func (a *BellAlerter) NewOrder(n models.Notification) {
	fmt.Fprint(os.Stdout, "\a")
	if a.Log != nil {
		a.Log.Printf("New order! Table %s - %s (%d items)", n.TableNumber, n.CustomerName, n.ItemCount)
	}
}
