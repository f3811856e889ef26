// Package ticketid onay ekranında gösterilen okunabilir ticket kimliğini üretir.
package ticketid

import (
	"fmt"
	"time"
)

// Format oluşturulma anının referans bölgedeki takvim tarihini (YYYYMMDD) ve
// en az üç haneye sıfırla doldurulmuş sıra numarasını birleştirir.
// loc nil ise UTC kullanılır.
func Format(createdAt time.Time, number int, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return createdAt.In(loc).Format("20060102") + fmt.Sprintf("%03d", number)
}
