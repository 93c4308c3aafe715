package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"takeout/internal/domain/model"
	repo "takeout/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	dateLayout = "2006-01-02"

	// 集計できる最大日数
	maxReportDays = 366
)

type ReportUsecase struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	users      repo.UserRepository
	clock      Clock
}

func NewReportUsecase(orders repo.OrderRepository, orderItems repo.OrderItemRepository, users repo.UserRepository, clock Clock) *ReportUsecase {
	return &ReportUsecase{orders: orders, orderItems: orderItems, users: users, clock: clock}
}

type TurnoverReport struct {
	DateList     string `json:"date_list"`
	TurnoverList string `json:"turnover_list"`
}

type UserReport struct {
	DateList      string `json:"date_list"`
	NewUserList   string `json:"new_user_list"`
	TotalUserList string `json:"total_user_list"`
}

type OrderReport struct {
	DateList            string  `json:"date_list"`
	OrderCountList      string  `json:"order_count_list"`
	ValidOrderCountList string  `json:"valid_order_count_list"`
	TotalOrderCount     int64   `json:"total_order_count"`
	ValidOrderCount     int64   `json:"valid_order_count"`
	OrderCompletionRate float64 `json:"order_completion_rate"`
}

type SalesTop10Report struct {
	NameList   string `json:"name_list"`
	NumberList string `json:"number_list"`
}

// 当日の営業データ
type BusinessData struct {
	Turnover            decimal.Decimal `json:"turnover"`
	ValidOrderCount     int64           `json:"valid_order_count"`
	OrderCompletionRate float64         `json:"order_completion_rate"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	NewUsers            int64           `json:"new_users"`
}

// begin〜end（両端含む）の日付を作る
func reportDays(begin, end time.Time) ([]time.Time, error) {
	b := truncateDay(begin)
	e := truncateDay(end)
	if b.After(e) {
		return nil, badRequest("begin must not be after end")
	}
	var days []time.Time
	for d := b; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
		if len(days) > maxReportDays {
			return nil, badRequest("period too long")
		}
	}
	return days, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func joinDates(days []time.Time) string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Format(dateLayout)
	}
	return strings.Join(out, ",")
}

func joinInts(vs []int64) string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(out, ",")
}

// 日ごとの集計を並列で回す（結果は日付順）
func eachDay(ctx context.Context, days []time.Time, fn func(ctx context.Context, i int, begin, end time.Time) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, d := range days {
		i, d := i, d
		g.Go(func() error {
			return fn(gctx, i, d, d.AddDate(0, 0, 1))
		})
	}
	if err := g.Wait(); err != nil {
		if _, ok := AsHTTPError(err); ok {
			return err
		}
		return internalError(err)
	}
	return nil
}

// 完了注文の売上
func (u *ReportUsecase) Turnover(ctx context.Context, begin, end time.Time) (TurnoverReport, error) {
	days, err := reportDays(begin, end)
	if err != nil {
		return TurnoverReport{}, err
	}

	sums := make([]decimal.Decimal, len(days))
	err = eachDay(ctx, days, func(ctx context.Context, i int, b, e time.Time) error {
		v, err := u.orders.SumAmount(ctx, model.OrderStatusCompleted, b, e)
		if err != nil {
			return err
		}
		sums[i] = v
		return nil
	})
	if err != nil {
		return TurnoverReport{}, err
	}

	list := make([]string, len(sums))
	for i, s := range sums {
		list[i] = s.StringFixed(2)
	}
	return TurnoverReport{DateList: joinDates(days), TurnoverList: strings.Join(list, ",")}, nil
}

// 新規ユーザー数と累計ユーザー数
func (u *ReportUsecase) UserStatistics(ctx context.Context, begin, end time.Time) (UserReport, error) {
	days, err := reportDays(begin, end)
	if err != nil {
		return UserReport{}, err
	}

	news := make([]int64, len(days))
	totals := make([]int64, len(days))
	err = eachDay(ctx, days, func(ctx context.Context, i int, b, e time.Time) error {
		n, err := u.users.CountCreatedBetween(ctx, b, e)
		if err != nil {
			return err
		}
		t, err := u.users.CountCreatedBefore(ctx, e)
		if err != nil {
			return err
		}
		news[i], totals[i] = n, t
		return nil
	})
	if err != nil {
		return UserReport{}, err
	}

	return UserReport{
		DateList:      joinDates(days),
		NewUserList:   joinInts(news),
		TotalUserList: joinInts(totals),
	}, nil
}

// 全注文数・有効（完了）注文数・完了率
func (u *ReportUsecase) OrderStatistics(ctx context.Context, begin, end time.Time) (OrderReport, error) {
	days, err := reportDays(begin, end)
	if err != nil {
		return OrderReport{}, err
	}

	counts := make([]int64, len(days))
	valids := make([]int64, len(days))
	err = eachDay(ctx, days, func(ctx context.Context, i int, b, e time.Time) error {
		n, err := u.orders.Count(ctx, "", b, e)
		if err != nil {
			return err
		}
		v, err := u.orders.Count(ctx, model.OrderStatusCompleted, b, e)
		if err != nil {
			return err
		}
		counts[i], valids[i] = n, v
		return nil
	})
	if err != nil {
		return OrderReport{}, err
	}

	var total, valid int64
	for i := range days {
		total += counts[i]
		valid += valids[i]
	}

	return OrderReport{
		DateList:            joinDates(days),
		OrderCountList:      joinInts(counts),
		ValidOrderCountList: joinInts(valids),
		TotalOrderCount:     total,
		ValidOrderCount:     valid,
		OrderCompletionRate: completionRate(valid, total),
	}, nil
}

// 売上数トップ10
func (u *ReportUsecase) Top10(ctx context.Context, begin, end time.Time) (SalesTop10Report, error) {
	days, err := reportDays(begin, end)
	if err != nil {
		return SalesTop10Report{}, err
	}

	tops, err := u.orderItems.TopSales(ctx, days[0], days[len(days)-1].AddDate(0, 0, 1), 10)
	if err != nil {
		return SalesTop10Report{}, internalError(err)
	}

	names := make([]string, len(tops))
	nums := make([]int64, len(tops))
	for i, t := range tops {
		names[i] = t.Name
		nums[i] = t.Quantity
	}
	return SalesTop10Report{NameList: strings.Join(names, ","), NumberList: joinInts(nums)}, nil
}

// 今日の営業データ
func (u *ReportUsecase) BusinessData(ctx context.Context) (BusinessData, error) {
	begin := truncateDay(u.clock.Now())
	end := begin.AddDate(0, 0, 1)

	var (
		turnover     decimal.Decimal
		total, valid int64
		newUsers     int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := u.orders.SumAmount(gctx, model.OrderStatusCompleted, begin, end)
		turnover = v
		return err
	})
	g.Go(func() error {
		v, err := u.orders.Count(gctx, "", begin, end)
		total = v
		return err
	})
	g.Go(func() error {
		v, err := u.orders.Count(gctx, model.OrderStatusCompleted, begin, end)
		valid = v
		return err
	})
	g.Go(func() error {
		v, err := u.users.CountCreatedBetween(gctx, begin, end)
		newUsers = v
		return err
	})
	if err := g.Wait(); err != nil {
		return BusinessData{}, internalError(err)
	}

	unit := decimal.Zero
	if valid > 0 {
		unit = turnover.Div(decimal.NewFromInt(valid)).Round(2)
	}
	return BusinessData{
		Turnover:            turnover,
		ValidOrderCount:     valid,
		OrderCompletionRate: completionRate(valid, total),
		UnitPrice:           unit,
		NewUsers:            newUsers,
	}, nil
}

func completionRate(valid, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(valid) / float64(total)
}
