package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"atlascli/internal/infrastructure"
	"atlascli/pkg/contracts/domain"
	"atlascli/pkg/contracts/schema"
)

// Snapshots returns daily snapshot rows matching the filter, ordered by
// (trade_date, ticker) ascending.
func (s *Store) Snapshots(ctx context.Context, f domain.SnapshotFilter) (out []domain.DailySnapshot, err error) {
	start := time.Now()
	defer func() {
		infrastructure.RecordStoreQueryMetrics(ctx, s.metrics, schema.DailyMarketSnapshot, "select", time.Since(start), err)
	}()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	q := newQuery(`SELECT trade_date, ticker, name, open, high, low, close,
		pct_change, pre_close, volume, amount, turnover, market_cap, float_cap,
		is_st, is_limit_up, is_limit_down, created_at
		FROM daily_market_snapshot`)
	q.whereDate("trade_date", f.Date, f.DateFrom, f.DateTo)
	q.whereIn("ticker", f.Tickers)
	if f.STOnly {
		q.where("is_st = true")
	}
	if f.LimitUpOnly {
		q.where("is_limit_up = true")
	}
	if f.LimitDownOnly {
		q.where("is_limit_down = true")
	}
	q.orderBy("trade_date, ticker")
	q.page(f.Limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, q.sql(), q.args...)
	if err != nil {
		return nil, wrapOp("select", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec       domain.DailySnapshot
			name      sql.NullString
			open      sql.NullFloat64
			high      sql.NullFloat64
			low       sql.NullFloat64
			closePx   sql.NullFloat64
			preClose  sql.NullFloat64
			pctChange sql.NullFloat64
			volume    sql.NullInt64
			amount    sql.NullFloat64
			turnover  sql.NullFloat64
			marketCap sql.NullFloat64
			floatCap  sql.NullFloat64
			isST      sql.NullBool
			limitUp   sql.NullBool
			limitDown sql.NullBool
			createdAt sql.NullTime
		)
		if err = rows.Scan(&rec.TradeDate, &rec.Ticker, &name, &open, &high,
			&low, &closePx, &pctChange, &preClose, &volume, &amount, &turnover,
			&marketCap, &floatCap, &isST, &limitUp, &limitDown, &createdAt); err != nil {
			return nil, wrapOp("select", err)
		}

		rec.Name = stringPtr(name)
		rec.Open = floatPtr(open)
		rec.High = floatPtr(high)
		rec.Low = floatPtr(low)
		rec.Close = floatPtr(closePx)
		rec.PreClose = floatPtr(preClose)
		rec.PctChange = floatPtr(pctChange)
		rec.Volume = intPtr(volume)
		rec.Amount = floatPtr(amount)
		rec.Turnover = floatPtr(turnover)
		rec.MarketCap = floatPtr(marketCap)
		rec.FloatCap = floatPtr(floatCap)
		rec.IsST = boolPtr(isST)
		rec.IsLimitUp = boolPtr(limitUp)
		rec.IsLimitDown = boolPtr(limitDown)
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		out = append(out, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapOp("select", err)
	}
	return out, nil
}

// SnapshotSummary aggregates one trading day's snapshot rows.
func (s *Store) SnapshotSummary(ctx context.Context, date time.Time) (sum domain.SnapshotSummary, err error) {
	start := time.Now()
	defer func() {
		infrastructure.RecordStoreQueryMetrics(ctx, s.metrics, schema.DailyMarketSnapshot, "summary", time.Since(start), err)
	}()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `SELECT
		count(*),
		count(*) FILTER (WHERE pct_change > 0),
		count(*) FILTER (WHERE pct_change < 0),
		count(*) FILTER (WHERE is_limit_up),
		count(*) FILTER (WHERE is_limit_down),
		count(*) FILTER (WHERE is_st),
		CAST(coalesce(sum(volume), 0) AS BIGINT),
		coalesce(sum(amount), 0)
		FROM daily_market_snapshot WHERE trade_date = ?`, date)

	sum.TradeDate = date
	if err = row.Scan(&sum.TotalTickers, &sum.AdvancingStocks, &sum.DecliningStocks,
		&sum.LimitUpCount, &sum.LimitDownCount, &sum.STCount,
		&sum.TotalVolume, &sum.TotalAmount); err != nil {
		return domain.SnapshotSummary{}, wrapOp("summary", err)
	}
	return sum, nil
}

// Phases returns market phase rows matching the filter, ordered by
// trade_date ascending.
func (s *Store) Phases(ctx context.Context, f domain.PhaseFilter) (out []domain.MarketPhase, err error) {
	start := time.Now()
	defer func() {
		infrastructure.RecordStoreQueryMetrics(ctx, s.metrics, schema.MarketPhase, "select", time.Since(start), err)
	}()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	q := newQuery(`SELECT trade_date, phase, M1_core, M2_front,
		M3_identifiable, V_triggered, notes, created_at FROM market_phase`)
	q.whereDate("trade_date", nil, f.DateFrom, f.DateTo)
	if f.Phase != "" {
		q.where("phase = ?", f.Phase)
	}
	q.orderBy("trade_date")
	q.page(f.Limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, q.sql(), q.args...)
	if err != nil {
		return nil, wrapOp("select", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec       domain.MarketPhase
			phase     sql.NullString
			m1        sql.NullBool
			m2        sql.NullBool
			m3        sql.NullBool
			v         sql.NullBool
			notes     sql.NullString
			createdAt sql.NullTime
		)
		if err = rows.Scan(&rec.TradeDate, &phase, &m1, &m2, &m3, &v, &notes, &createdAt); err != nil {
			return nil, wrapOp("select", err)
		}
		rec.Phase = stringPtr(phase)
		rec.M1Core = boolPtr(m1)
		rec.M2Front = boolPtr(m2)
		rec.M3Identifiable = boolPtr(m3)
		rec.VTriggered = boolPtr(v)
		rec.Notes = stringPtr(notes)
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		out = append(out, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapOp("select", err)
	}
	return out, nil
}

// Executions returns trade execution rows matching the filter, ordered by
// trade_id ascending.
func (s *Store) Executions(ctx context.Context, f domain.ExecutionFilter) (out []domain.TradeExecution, err error) {
	start := time.Now()
	defer func() {
		infrastructure.RecordStoreQueryMetrics(ctx, s.metrics, schema.TradeExecution, "select", time.Since(start), err)
	}()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	q := newQuery(`SELECT trade_id, ticker, entry_date, entry_price,
		path_type, half_sell_trigger, half_sell_date, half_sell_price,
		exit_date, exit_price, position_pct, notes FROM trade_execution`)
	q.whereIn("ticker", f.Tickers)
	if f.PathType != "" {
		q.where("path_type = ?", f.PathType)
	}
	q.whereDate("entry_date", nil, f.DateFrom, f.DateTo)
	if f.OpenOnly {
		q.where("exit_date IS NULL")
	}
	q.orderBy("trade_id")
	q.page(f.Limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, q.sql(), q.args...)
	if err != nil {
		return nil, wrapOp("select", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec         domain.TradeExecution
			ticker      sql.NullString
			entryDate   sql.NullTime
			entryPrice  sql.NullFloat64
			pathType    sql.NullString
			halfTrigger sql.NullFloat64
			halfDate    sql.NullTime
			halfPrice   sql.NullFloat64
			exitDate    sql.NullTime
			exitPrice   sql.NullFloat64
			positionPct sql.NullFloat64
			notes       sql.NullString
		)
		if err = rows.Scan(&rec.TradeID, &ticker, &entryDate, &entryPrice,
			&pathType, &halfTrigger, &halfDate, &halfPrice, &exitDate,
			&exitPrice, &positionPct, &notes); err != nil {
			return nil, wrapOp("select", err)
		}
		rec.Ticker = stringPtr(ticker)
		rec.EntryDate = timePtr(entryDate)
		rec.EntryPrice = floatPtr(entryPrice)
		rec.PathType = stringPtr(pathType)
		rec.HalfSellTrigger = floatPtr(halfTrigger)
		rec.HalfSellDate = timePtr(halfDate)
		rec.HalfSellPrice = floatPtr(halfPrice)
		rec.ExitDate = timePtr(exitDate)
		rec.ExitPrice = floatPtr(exitPrice)
		rec.PositionPct = floatPtr(positionPct)
		rec.Notes = stringPtr(notes)
		out = append(out, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapOp("select", err)
	}
	return out, nil
}

// query accumulates a SELECT statement's predicates and paging.
type query struct {
	base  string
	preds []string
	order string
	args  []any
	limit int
	off   int
}

func newQuery(base string) *query {
	return &query{base: base}
}

func (q *query) where(pred string, args ...any) {
	q.preds = append(q.preds, pred)
	q.args = append(q.args, args...)
}

// whereDate adds either an exact-date predicate or an inclusive range.
func (q *query) whereDate(column string, exact, from, to *time.Time) {
	if exact != nil {
		q.where(column+" = ?", *exact)
		return
	}
	if from != nil {
		q.where(column+" >= ?", *from)
	}
	if to != nil {
		q.where(column+" <= ?", *to)
	}
}

func (q *query) whereIn(column string, values []string) {
	if len(values) == 0 {
		return
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	q.where(fmt.Sprintf("%s IN (%s)", column, placeholders), args...)
}

func (q *query) orderBy(order string) { q.order = order }

func (q *query) page(limit, offset int) {
	q.limit = limit
	q.off = offset
}

func (q *query) sql() string {
	var sb strings.Builder
	sb.WriteString(q.base)
	if len(q.preds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(q.preds, " AND "))
	}
	if q.order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(q.order)
	}
	if q.limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.limit)
	}
	if q.off > 0 {
		fmt.Fprintf(&sb, " OFFSET %d", q.off)
	}
	return sb.String()
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func boolPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	return &v.Bool
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	return &v.Time
}
