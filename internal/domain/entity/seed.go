package entity

import "time"

// SeedBaseTime anchors the sample dataset so seeded timestamps are stable.
var SeedBaseTime = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

type seedReport struct {
	id, authorID, authorName, location, description, photo string
	lat, lng                                                 float64
	age                                                      time.Duration
}

var seedReports = []seedReport{
	{"report-1", "user-2", "ベテランハンター", "新宿駅東口", "大きなドブネズミを発見しました。ゴミ箱の近くにいました。体長約20cm程度で、茶色い毛並みでした。", "/rat-near-garbage.jpg", 35.6895, 139.7006, 2 * time.Hour},
	{"report-2", "user-3", "市民パトロール", "歌舞伎町一丁目", "複数のネズミが走っているのを見ました。夜間10時頃に目撃しました。飲食店の裏口付近で3匹ほど確認。", "/multiple-rats-running.jpg", 35.6938, 139.7034, 5 * time.Hour},
	{"report-3", "user-4", "環境ウォッチャー", "新宿三丁目駅周辺", "地下街の出口付近でネズミの痕跡を発見。糞が複数箇所にありました。衛生面が心配です。", "", 35.6905, 139.7063, 24 * time.Hour},
	{"report-4", "user-5", "夜勤パトロール", "西新宿公園", "公園のベンチ下にネズミの巣があるようです。早朝5時頃に複数のネズミが出入りしていました。", "/rat-near-park-bench-at-dawn.jpg", 35.692, 139.689, 3 * time.Hour},
	{"report-5", "user-6", "商店街の見回り隊", "新宿御苑前駅", "駅構内のゴミ箱周辺で小型のネズミを目撃。素早く排水溝に逃げ込みました。", "", 35.6875, 139.7105, 8 * time.Hour},
	{"report-6", "user-7", "深夜巡回員", "新宿中央公園", "公園のトイレ裏でネズミの群れを発見。10匹以上いたと思われます。食べ物の残骸が散乱していました。", "/multiple-rats-near-trash-pile-at-night.jpg", 35.6897, 139.6887, 12 * time.Hour},
	{"report-7", "user-8", "清掃ボランティア", "新宿駅西口", "地下道で大きなネズミを目撃。人を見ても逃げない様子で、かなり図々しい個体でした。", "/large-brown-rat-in-subway-tunnel.jpg", 35.6896, 139.6992, 18 * time.Hour},
	{"report-8", "user-9", "地域安全パトロール", "四谷三丁目", "マンションのゴミ置き場でネズミが袋を破って漁っていました。住民の方は注意が必要です。", "", 35.6875, 139.7188, 24 * time.Hour},
}

// SeedReports returns a fresh copy of the fixed sample dataset.
func SeedReports() []*Report {
	reports := make([]*Report, 0, len(seedReports))
	for _, s := range seedReports {
		reports = append(reports, &Report{
			ID:          s.id,
			AuthorID:    s.authorID,
			AuthorName:  s.authorName,
			Location:    s.location,
			Lat:         s.lat,
			Lng:         s.lng,
			Description: s.description,
			Photo:       s.photo,
			Timestamp:   SeedBaseTime.Add(-s.age).UnixMilli(),
			Status:      ReportStatusPending,
			ReviewedBy:  []string{},
		})
	}
	return reports
}
