package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/hh-grader/internal/dataset"
	"github.com/spigell/hh-grader/internal/pipeline"
)

const locationColumn = "Город"

// OtherRegion is the catch-all bucket for unrecognized cities.
const OtherRegion = "Other"

// Static many-to-one city to macro-region map. City names appear in the
// scripts the export actually uses; matching is exact and case-sensitive.
var regionCities = []struct {
	region string
	cities []string
}{
	{"Moscow & Oblast", []string{
		"Москва", "Moscow", "Зеленоград", "Подольск", "Балашиха", "Химки", "Мытищи",
		"Королев", "Люберцы", "Красногорск", "Одинцово", "Домодедово", "Щелково",
		"Серпухов", "Раменское", "Долгопрудный", "Реутов", "Пушкино", "Лобня",
	}},
	{"Saint Petersburg & Oblast", []string{
		"Санкт-Петербург", "Saint Petersburg", "Гатчина", "Выборг", "Всеволожск",
		"Сосновый Бор", "Кириши", "Тихвин", "Сертолово",
	}},
	{"Central Federal District", []string{
		"Воронеж", "Ярославль", "Рязань", "Тверь", "Тула", "Липецк", "Курск",
		"Брянск", "Иваново", "Белгород", "Владимир", "Калуга", "Орел", "Смоленск",
		"Тамбов", "Кострома", "Старый Оскол",
	}},
	{"Volga Federal District", []string{
		"Казань", "Kazan", "Нижний Новгород", "Самара", "Уфа", "Пермь", "Саратов",
		"Тольятти", "Ижевск", "Ульяновск", "Оренбург", "Пенза", "Набережные Челны",
		"Чебоксары", "Киров", "Саранск", "Стерлитамак", "Йошкар-Ола",
	}},
	{"South and North Caucasus Federal District", []string{
		"Краснодар", "Ростов-на-Дону", "Волгоград", "Сочи", "Ставрополь", "Астрахань",
		"Севастополь", "Симферополь", "Новороссийск", "Таганрог", "Махачкала",
		"Владикавказ", "Грозный", "Майкоп", "Пятигорск",
	}},
	{"Ural Federal District", []string{
		"Екатеринбург", "Yekaterinburg", "Челябинск", "Тюмень", "Магнитогорск",
		"Сургут", "Нижневартовск", "Курган", "Новый Уренгой", "Ноябрьск", "Ханты-Мансийск",
	}},
	{"Siberian Federal District", []string{
		"Новосибирск", "Novosibirsk", "Красноярск", "Омск", "Томск", "Барнаул",
		"Иркутск", "Кемерово", "Новокузнецк", "Абакан", "Братск", "Ангарск",
	}},
	{"Far Eastern Federal District", []string{
		"Владивосток", "Хабаровск", "Улан-Удэ", "Чита", "Благовещенск", "Якутск",
		"Петропавловск-Камчатский", "Южно-Сахалинск", "Находка",
	}},
	{"Kazakhstan", []string{
		"Алматы", "Almaty", "Нур-Султан", "Астана", "Astana", "Шымкент", "Актобе",
		"Караганда", "Атырау", "Актау", "Павлодар", "Уральск",
	}},
	{"Belarus", []string{
		"Минск", "Minsk", "Гомель", "Витебск", "Могилев", "Гродно", "Брест",
	}},
	{"Other countries / CIS", []string{
		"Киев", "Kyiv", "Ташкент", "Бишкек", "Тбилиси", "Баку", "Ереван", "Рига", "Вильнюс",
	}},
}

var cityToRegion = buildCityIndex()

func buildCityIndex() map[string]string {
	index := make(map[string]string)
	for _, entry := range regionCities {
		for _, city := range entry.cities {
			index[city] = entry.region
		}
	}
	return index
}

type location struct{}

// NewLocation creates the stage that buckets the raw city field into a fixed
// set of macro-regions.
func NewLocation() pipeline.Stage {
	return &location{}
}

func (l *location) Name() string { return "location" }

func (l *location) PreservesRows() bool { return true }

func (l *location) Validate(s *pipeline.State) error {
	if s.Table == nil {
		return fmt.Errorf("table is required")
	}
	if !s.Table.HasColumn(locationColumn) {
		return fmt.Errorf("column %q not found", locationColumn)
	}
	return nil
}

func (l *location) Apply(_ context.Context, s *pipeline.State) (*pipeline.State, error) {
	source, err := s.Table.Column(locationColumn)
	if err != nil {
		return nil, err
	}

	values := make([]dataset.Value, len(source))
	for i, v := range source {
		values[i] = dataset.Text(CategorizeCity(textOf(v)))
	}

	if err := s.Table.AddColumn("region", values); err != nil {
		return nil, err
	}
	s.Table.DropColumn(locationColumn)

	return s, nil
}

// CategorizeCity maps the first comma segment of the raw city field to its
// macro-region. Unknown cities go to the "Other" bucket.
func CategorizeCity(raw string) string {
	city := strings.TrimSpace(strings.SplitN(raw, ",", 2)[0])
	if region, ok := cityToRegion[city]; ok {
		return region
	}
	return OtherRegion
}
