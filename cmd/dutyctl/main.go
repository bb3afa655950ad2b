// Command dutyctl manages per-date duty records in the Redis store. It is
// the operator path for seeding schedules and fixing individual entries.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pharmagarde/locator/internal/core/model"
	"github.com/pharmagarde/locator/internal/duty/redisstore"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		addr      = flag.String("redis", getenv("REDIS_ADDR", "localhost:6379"), "redis address")
		date      = flag.String("date", model.DateKeyFor(time.Now().UTC()).String(), "duty date (YYYY-MM-DD)")
		retention = flag.Duration("retention", 72*time.Hour, "per-date record retention")
		set       = flag.String("set", "", "record one entry as id=status (status: day, night, day_and_night, none)")
		del       = flag.String("del", "", "delete the entry for this pharmacy id")
		list      = flag.Bool("list", false, "print all entries for the date")
	)
	flag.Parse()

	day, err := model.ParseDateKey(*date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -date: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := redisstore.New(ctx, *addr, *retention)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", *addr, err)
		return 1
	}
	defer func() { _ = store.Close() }()

	switch {
	case *set != "":
		id, status, ok := strings.Cut(*set, "=")
		if !ok || id == "" {
			fmt.Fprintln(os.Stderr, "bad -set: want id=status")
			return 2
		}
		if err := store.SetStatus(ctx, day, id, model.DutyStatus(status)); err != nil {
			fmt.Fprintf(os.Stderr, "set %s: %v\n", id, err)
			return 1
		}
		fmt.Printf("set %s %s=%s\n", day, id, status)
	case *del != "":
		if err := store.DeleteStatus(ctx, day, *del); err != nil {
			fmt.Fprintf(os.Stderr, "delete %s: %v\n", *del, err)
			return 1
		}
		fmt.Printf("deleted %s %s\n", day, *del)
	case *list:
		records, err := store.RecordsForDate(ctx, day)
		if err != nil {
			fmt.Fprintf(os.Stderr, "list %s: %v\n", day, err)
			return 1
		}
		ids := make([]string, 0, len(records))
		for id := range records {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Printf("%s\t%s\n", id, records[id])
		}
		fmt.Fprintf(os.Stderr, "%d entries for %s\n", len(ids), day)
	default:
		flag.Usage()
		return 2
	}
	return 0
}
