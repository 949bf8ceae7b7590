package domain

const (
	MinTapBatch = 20
	MaxTapBatch = 80
)

// TapState снапшот профиля, который отдаёт и принимает вендор.
type TapState struct {
	ID                int64 `json:"id"`
	Clicks            int64 `json:"clicks"`
	Energy            int64 `json:"energy"`
	Balance           int64 `json:"balance"`
	BalanceFromClicks int64 `json:"balance_from_clicks"`
}

// BatchSize режет случайный размер пачки по текущей энергии.
func (s TapState) BatchSize(draw int64) int64 {
	if s.Energy <= 0 {
		return 0
	}
	return min(draw, s.Energy)
}

// Apply снапшот, который отправляем после пачки из batch тапов.
func (s TapState) Apply(batch int64) TapState {
	batch = s.BatchSize(batch)
	next := s
	next.Energy -= batch
	next.Clicks += batch
	next.Balance += batch
	next.BalanceFromClicks += batch
	return next
}
