package catalog

// Category 餐點分類
type Category string

const (
	CategoryBento    Category = "便當/自助餐"
	CategoryNoodles  Category = "麵食/水餃"
	CategoryWestern  Category = "西式/速食"
	CategoryJapanese Category = "日式料理"
	CategoryThai     Category = "泰式/東南亞"
	CategoryHealthy  Category = "健康/輕食"
	CategoryDessert  Category = "飲料/點心"
)

// Categories 依固定順序列出所有分類
var Categories = []Category{
	CategoryBento,
	CategoryNoodles,
	CategoryWestern,
	CategoryJapanese,
	CategoryThai,
	CategoryHealthy,
	CategoryDessert,
}

// Valid 是否為已知分類
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// FoodItem 餐點目錄中的一筆資料，建立後不會再被修改
type FoodItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Emoji       string   `json:"emoji"`
	Tags        []string `json:"tags"`
	Description string   `json:"description,omitempty"`
}

// HasTag 是否帶有指定標籤
func (f FoodItem) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// clone 複製一份，避免呼叫端改到目錄內的 Tags
func (f FoodItem) clone() FoodItem {
	f.Tags = append([]string(nil), f.Tags...)
	return f
}

// Scenario 以單一標籤篩選目錄的情境
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	FilterTag   string `json:"filter_tag"`
}

// CategorySummary 分類與其餐點數量
type CategorySummary struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}
