package scrape

import (
	"sort"
	"strings"
)

// City is a scrape target. Name and Country are the Persian names stored on
// imported listings; NameEn is used in search queries.
type City struct {
	NameEn      string
	Name        string
	Country     string
	CountryCode string
	Priority    int
}

// Cities lists every supported city. Lower Priority is scraped first.
var Cities = []City{
	{NameEn: "Los Angeles", Name: "لس‌آنجلس", Country: "آمریکا", CountryCode: "us", Priority: 1},
	{NameEn: "New York", Name: "نیویورک", Country: "آمریکا", CountryCode: "us", Priority: 1},
	{NameEn: "Washington DC", Name: "واشنگتن", Country: "آمریکا", CountryCode: "us", Priority: 1},
	{NameEn: "Toronto", Name: "تورنتو", Country: "کانادا", CountryCode: "ca", Priority: 1},
	{NameEn: "Vancouver", Name: "ونکوور", Country: "کانادا", CountryCode: "ca", Priority: 1},
	{NameEn: "Beverly Hills", Name: "بورلی‌هیلز", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "Irvine", Name: "ارواین", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "Glendale", Name: "گلندیل", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "San Diego", Name: "سن‌دیگو", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "San Francisco", Name: "سانفرانسیسکو", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "San Jose", Name: "سن‌خوزه", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "Houston", Name: "هیوستون", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "Dallas", Name: "دالاس", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "Great Neck", Name: "گریت‌نک", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "Chicago", Name: "شیکاگو", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "Seattle", Name: "سیاتل", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "Boston", Name: "بوستون", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "Miami", Name: "مایامی", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "Atlanta", Name: "آتلانتا", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "Las Vegas", Name: "لاس‌وگاس", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "Philadelphia", Name: "فیلادلفیا", Country: "آمریکا", CountryCode: "us", Priority: 2},
	{NameEn: "Montreal", Name: "مونترال", Country: "کانادا", CountryCode: "ca", Priority: 2},
	{NameEn: "Calgary", Name: "کلگری", Country: "کانادا", CountryCode: "ca", Priority: 2},
	{NameEn: "Edmonton", Name: "ادمونتون", Country: "کانادا", CountryCode: "ca", Priority: 2},
	{NameEn: "Richmond Hill", Name: "ریچموند‌هیل", Country: "کانادا", CountryCode: "ca", Priority: 2},
	{NameEn: "North York", Name: "نورث‌یورک", Country: "کانادا", CountryCode: "ca", Priority: 2},
	{NameEn: "London", Name: "لندن", Country: "انگلستان", CountryCode: "gb", Priority: 2},
	{NameEn: "Berlin", Name: "برلین", Country: "آلمان", CountryCode: "de", Priority: 2},
	{NameEn: "Munich", Name: "مونیخ", Country: "آلمان", CountryCode: "de", Priority: 2},
	{NameEn: "Frankfurt", Name: "فرانکفورت", Country: "آلمان", CountryCode: "de", Priority: 2},
	{NameEn: "Hamburg", Name: "هامبورگ", Country: "آلمان", CountryCode: "de", Priority: 2},
	{NameEn: "Dubai", Name: "دبی", Country: "امارات", CountryCode: "ae", Priority: 2},
	{NameEn: "Abu Dhabi", Name: "ابوظبی", Country: "امارات", CountryCode: "ae", Priority: 2},
	{NameEn: "Istanbul", Name: "استانبول", Country: "ترکیه", CountryCode: "tr", Priority: 2},
	{NameEn: "Stockholm", Name: "استکهلم", Country: "سوئد", CountryCode: "se", Priority: 2},
	{NameEn: "Sydney", Name: "سیدنی", Country: "استرالیا", CountryCode: "au", Priority: 2},
	{NameEn: "Melbourne", Name: "ملبورن", Country: "استرالیا", CountryCode: "au", Priority: 2},
	{NameEn: "Paris", Name: "پاریس", Country: "فرانسه", CountryCode: "fr", Priority: 2},
	{NameEn: "Amsterdam", Name: "آمستردام", Country: "هلند", CountryCode: "nl", Priority: 2},
	{NameEn: "Vienna", Name: "وین", Country: "اتریش", CountryCode: "at", Priority: 2},
	{NameEn: "Santa Monica", Name: "سانتا مونیکا", Country: "آمریکا", CountryCode: "us", Priority: 3},
	{NameEn: "Encino", Name: "انسینو", Country: "آمریکا", CountryCode: "us", Priority: 3},
	{NameEn: "Woodland Hills", Name: "وودلند هیلز", Country: "آمریکا", CountryCode: "us", Priority: 3},
	{NameEn: "Palo Alto", Name: "پالو آلتو", Country: "آمریکا", CountryCode: "us", Priority: 3},
	{NameEn: "Sacramento", Name: "ساکرامنتو", Country: "آمریکا", CountryCode: "us", Priority: 3},
	{NameEn: "Fresno", Name: "فرزنو", Country: "آمریکا", CountryCode: "us", Priority: 3},
	{NameEn: "Austin", Name: "آستین", Country: "آمریکا", CountryCode: "us", Priority: 3},
	{NameEn: "San Antonio", Name: "سن‌آنتونیو", Country: "آمریکا", CountryCode: "us", Priority: 3},
	{NameEn: "Phoenix", Name: "فینیکس", Country: "آمریکا", CountryCode: "us", Priority: 3},
	{NameEn: "Denver", Name: "دنور", Country: "آمریکا", CountryCode: "us", Priority: 3},
	{NameEn: "Portland", Name: "پورتلند", Country: "آمریکا", CountryCode: "us", Priority: 3},
	{NameEn: "Baltimore", Name: "بالتیمور", Country: "آمریکا", CountryCode: "us", Priority: 3},
	{NameEn: "Minneapolis", Name: "مینیاپولیس", Country: "آمریکا", CountryCode: "us", Priority: 3},
	{NameEn: "Salt Lake City", Name: "سالت‌لیک‌سیتی", Country: "آمریکا", CountryCode: "us", Priority: 3},
	{NameEn: "Ottawa", Name: "اتاوا", Country: "کانادا", CountryCode: "ca", Priority: 3},
	{NameEn: "Winnipeg", Name: "وینیپگ", Country: "کانادا", CountryCode: "ca", Priority: 3},
	{NameEn: "Markham", Name: "مارکهام", Country: "کانادا", CountryCode: "ca", Priority: 3},
	{NameEn: "Cologne", Name: "کلن", Country: "آلمان", CountryCode: "de", Priority: 3},
	{NameEn: "Dusseldorf", Name: "دوسلدورف", Country: "آلمان", CountryCode: "de", Priority: 3},
	{NameEn: "Stuttgart", Name: "اشتوتگارت", Country: "آلمان", CountryCode: "de", Priority: 3},
	{NameEn: "Hannover", Name: "هانوفر", Country: "آلمان", CountryCode: "de", Priority: 3},
	{NameEn: "Bonn", Name: "بن", Country: "آلمان", CountryCode: "de", Priority: 3},
	{NameEn: "Nuremberg", Name: "نورنبرگ", Country: "آلمان", CountryCode: "de", Priority: 3},
	{NameEn: "Sharjah", Name: "شارجه", Country: "امارات", CountryCode: "ae", Priority: 3},
	{NameEn: "Ajman", Name: "عجمان", Country: "امارات", CountryCode: "ae", Priority: 3},
	{NameEn: "Ankara", Name: "آنکارا", Country: "ترکیه", CountryCode: "tr", Priority: 3},
	{NameEn: "Izmir", Name: "ازمیر", Country: "ترکیه", CountryCode: "tr", Priority: 3},
	{NameEn: "Antalya", Name: "آنتالیا", Country: "ترکیه", CountryCode: "tr", Priority: 3},
	{NameEn: "Bursa", Name: "بورسا", Country: "ترکیه", CountryCode: "tr", Priority: 3},
	{NameEn: "Van", Name: "وان", Country: "ترکیه", CountryCode: "tr", Priority: 3},
	{NameEn: "Manchester", Name: "منچستر", Country: "انگلستان", CountryCode: "gb", Priority: 3},
	{NameEn: "Birmingham", Name: "بیرمنگام", Country: "انگلستان", CountryCode: "gb", Priority: 3},
	{NameEn: "Gothenburg", Name: "گوتنبرگ", Country: "سوئد", CountryCode: "se", Priority: 3},
	{NameEn: "Malmo", Name: "مالمو", Country: "سوئد", CountryCode: "se", Priority: 3},
	{NameEn: "Brisbane", Name: "بریزبن", Country: "استرالیا", CountryCode: "au", Priority: 3},
	{NameEn: "Perth", Name: "پرث", Country: "استرالیا", CountryCode: "au", Priority: 3},
	{NameEn: "Lyon", Name: "لیون", Country: "فرانسه", CountryCode: "fr", Priority: 3},
	{NameEn: "Rotterdam", Name: "روتردام", Country: "هلند", CountryCode: "nl", Priority: 3},
	{NameEn: "The Hague", Name: "لاهه", Country: "هلند", CountryCode: "nl", Priority: 3},
	{NameEn: "Salzburg", Name: "سالزبورگ", Country: "اتریش", CountryCode: "at", Priority: 3},
	{NameEn: "Milan", Name: "میلان", Country: "ایتالیا", CountryCode: "it", Priority: 3},
	{NameEn: "Madrid", Name: "مادرید", Country: "اسپانیا", CountryCode: "es", Priority: 3},
	{NameEn: "Barcelona", Name: "بارسلونا", Country: "اسپانیا", CountryCode: "es", Priority: 3},
	{NameEn: "Oslo", Name: "اسلو", Country: "نروژ", CountryCode: "no", Priority: 3},
	{NameEn: "Copenhagen", Name: "کپنهاگ", Country: "دانمارک", CountryCode: "dk", Priority: 3},
	{NameEn: "Brussels", Name: "بروکسل", Country: "بلژیک", CountryCode: "be", Priority: 3},
	{NameEn: "Zurich", Name: "زوریخ", Country: "سوئیس", CountryCode: "ch", Priority: 3},
	{NameEn: "Geneva", Name: "ژنو", Country: "سوئیس", CountryCode: "ch", Priority: 3},
	{NameEn: "Auckland", Name: "اوکلند", Country: "نیوزیلند", CountryCode: "nz", Priority: 3},
	{NameEn: "Tokyo", Name: "توکیو", Country: "ژاپن", CountryCode: "jp", Priority: 3},
	{NameEn: "Kuala Lumpur", Name: "کوالالامپور", Country: "مالزی", CountryCode: "my", Priority: 3},
}

// FindCity matches name against NameEn, ignoring case.
func FindCity(name string) (City, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Cities {
		if strings.EqualFold(c.NameEn, name) {
			return c, true
		}
	}
	return City{}, false
}

// CandidateCities returns the cities for countryCode (all when empty) in
// priority order, keeping table order within a priority.
func CandidateCities(countryCode string) []City {
	countryCode = strings.ToLower(strings.TrimSpace(countryCode))
	var out []City
	for _, c := range Cities {
		if countryCode == "" || c.CountryCode == countryCode {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}
