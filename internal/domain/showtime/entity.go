package showtime

import "time"

// ShowTime は上映回を表す。上映スケジュールは外部のカタログ側で管理され、ここでは参照のみ
type ShowTime struct {
	ID         int64
	MovieID    int64
	MovieTitle string
	Date       time.Time
	StartTime  time.Time
	EndTime    time.Time
}

// Duration は上映時間を返す
func (s *ShowTime) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
