package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/alejandrodnm/turfflux/internal/domain"
	"github.com/olekukonko/tablewriter"
)

const compactTop = 4

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
	now   func() time.Time
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return NewConsoleWriter(os.Stdout, table)
}

// NewConsoleWriter crea un notificador sobre w (tests, ficheros).
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table, now: time.Now}
}

// Notify imprime el resultado en el modo configurado.
func (c *Console) Notify(_ context.Context, race, contest int, result domain.FluxResult) error {
	ts := c.now().Format("15:04:05")
	if !result.HasData() {
		fmt.Fprintf(c.out, "[%s] R%dC%d no pool data yet\n", ts, race, contest)
		return nil
	}

	if c.table {
		c.printTable(ts, race, contest, result)
	} else {
		c.printCompact(ts, race, contest, result)
	}
	return nil
}

// printCompact imprime una línea con las combinaciones que más suben.
func (c *Console) printCompact(ts string, race, contest int, r domain.FluxResult) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] R%dC%d %s total %.2f", ts, race, contest, r.Kind, r.Total)

	for i, e := range byVelocity(r.Entries) {
		if i >= compactTop {
			break
		}
		fmt.Fprintf(&sb, " | #%s %.2f%% %s", comboLabel(e.Combination), e.MarketShare, signed(e.Velocity))
	}
	fmt.Fprintln(c.out, sb.String())
}

// printTable imprime todas las combinaciones en el orden de la API.
func (c *Console) printTable(ts string, race, contest int, r domain.FluxResult) {
	fmt.Fprintf(c.out, "\n[%s] R%dC%d %s — total %.2f, %d combinaisons\n",
		ts, race, contest, r.Kind, r.Total, len(r.Entries))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Combinaison", "Enjeu", "Velocity", "Share %")
	for i, e := range r.Entries {
		table.Append(
			fmt.Sprintf("%d", i+1),
			comboLabel(e.Combination),
			fmt.Sprintf("%.2f", e.Stake),
			signed(e.Velocity),
			fmt.Sprintf("%.2f", e.MarketShare),
		)
	}
	table.Render()
}

// byVelocity devuelve una copia ordenada por velocity desc; empates por share.
func byVelocity(entries []domain.DerivedEntry) []domain.DerivedEntry {
	out := append([]domain.DerivedEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Velocity != out[j].Velocity {
			return out[i].Velocity > out[j].Velocity
		}
		return out[i].MarketShare > out[j].MarketShare
	})
	return out
}

func comboLabel(c domain.Combination) string {
	if len(c) == 0 {
		return "?"
	}
	parts := make([]string, len(c))
	for i, id := range c {
		parts[i] = string(id)
	}
	return strings.Join(parts, "-")
}

func signed(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
