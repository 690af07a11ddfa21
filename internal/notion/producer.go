package notion

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/abatilo/taskboard/internal/logger"
	"github.com/abatilo/taskboard/internal/record"
)

// Querier returns the pages of one database.
type Querier interface {
	QueryDatabase(ctx context.Context, databaseID string) ([]gjson.Result, error)
}

// Database binds a payload key (db1, db2, ...) to a Notion database ID. An
// empty ID yields an empty record list for the key.
type Database struct {
	Key string
	ID  string
}

// Databases converts a key → ID map into a key-sorted list.
func Databases(ids map[string]string) []Database {
	dbs := make([]Database, 0, len(ids))
	for key, id := range ids {
		dbs = append(dbs, Database{Key: key, ID: id})
	}
	slices.SortFunc(dbs, func(a, b Database) int { return cmp.Compare(a.Key, b.Key) })
	return dbs
}

// Producer builds the data source payload from the configured databases.
type Producer struct {
	querier   Querier
	databases []Database
	log       logger.Logger
}

// NewProducer creates a Producer.
func NewProducer(querier Querier, databases []Database, log logger.Logger) *Producer {
	return &Producer{querier: querier, databases: databases, log: log}
}

// Fetch queries every database concurrently. A failed query does not fail
// the payload: its key carries a single error record instead. Cancellation
// of ctx stops the remaining queries and fails the fetch.
func (p *Producer) Fetch(ctx context.Context) ([]record.Batch, error) {
	batches := make([]record.Batch, len(p.databases))
	g, gctx := errgroup.WithContext(ctx)
	for i, db := range p.databases {
		batches[i] = record.Batch{Key: db.Key, Records: []record.RawRecord{}}
		if db.ID == "" {
			continue
		}
		g.Go(func() error {
			pages, err := p.querier.QueryDatabase(gctx, db.ID)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				p.log.Error("notion query failed", "database", db.Key, "err", err)
				batches[i].Records = []record.RawRecord{{Error: err.Error()}}
				return nil
			}
			records := make([]record.RawRecord, 0, len(pages))
			for _, page := range pages {
				records = append(records, pageRecord(page))
			}
			batches[i].Records = records
			p.log.Debug("notion query", "database", db.Key, "pages", len(records))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

// Payload returns the encoded payload.
func (p *Producer) Payload(ctx context.Context) ([]byte, error) {
	batches, err := p.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return record.EncodePayload(batches)
}

// pageRecord converts a Notion page, resolving its title from the first
// non-empty title property.
func pageRecord(page gjson.Result) record.RawRecord {
	r := record.ParseRecord(page)
	page.Get("properties").ForEach(func(_, value gjson.Result) bool {
		if value.Get("type").String() != "title" {
			return true
		}
		if first := value.Get("title.0.plain_text"); first.Exists() {
			r.Title = first.String()
			return false
		}
		return true
	})
	if r.Title == "" {
		r.Title = fmt.Sprintf("Untitled Entry (%s)", r.ID)
	}
	return r
}
