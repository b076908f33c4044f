package pmu

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/alejandrodnm/turfflux/internal/domain"
)

func programmeURL(base, date string) string {
	return fmt.Sprintf("%s/programme/%s", strings.TrimRight(base, "/"), date)
}

func courseURL(base, date string, race, contest int) string {
	return fmt.Sprintf("%s/R%d/C%d", programmeURL(base, date), race, contest)
}

func participantsURL(base, date string, race, contest int) string {
	return courseURL(base, date, race, contest) + "/participants"
}

func combinaisonsURL(base, date string, race, contest int, kind domain.PoolKind) string {
	return courseURL(base, date, race, contest) + "/combinaisons/" + url.PathEscape(string(kind))
}
