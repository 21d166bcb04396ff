package catalog

import (
	"strings"

	"github.com/samber/lo"
)

// Catalog 唯讀的餐點目錄，所有查詢都回傳複本
type Catalog struct {
	foods     []FoodItem
	byID      map[string]int
	scenarios []Scenario
}

// New 以指定資料建立目錄，重複 ID 只保留第一筆
func New(foods []FoodItem, scenarios []Scenario) *Catalog {
	c := &Catalog{
		byID:      make(map[string]int, len(foods)),
		scenarios: append([]Scenario(nil), scenarios...),
	}
	for _, f := range foods {
		if _, dup := c.byID[f.ID]; dup {
			continue
		}
		c.byID[f.ID] = len(c.foods)
		c.foods = append(c.foods, f.clone())
	}
	return c
}

// Default 回傳內建的午餐目錄
func Default() *Catalog {
	return New(defaultFoods, defaultScenarios)
}

// Len 餐點數量
func (c *Catalog) Len() int {
	return len(c.foods)
}

// All 依原始順序回傳全部餐點
func (c *Catalog) All() []FoodItem {
	return cloneAll(c.foods)
}

// Names 依原始順序回傳餐點名稱
func Names(foods []FoodItem) []string {
	return lo.Map(foods, func(f FoodItem, _ int) string {
		return f.Name
	})
}

// Categories 每個分類的餐點數量，沒有餐點的分類也會列出
func (c *Catalog) Categories() []CategorySummary {
	return lo.Map(Categories, func(cat Category, _ int) CategorySummary {
		return CategorySummary{
			Category: cat,
			Count: lo.CountBy(c.foods, func(f FoodItem) bool {
				return f.Category == cat
			}),
		}
	})
}

// ByCategory 指定分類的餐點
func (c *Catalog) ByCategory(cat Category) []FoodItem {
	return cloneAll(lo.Filter(c.foods, func(f FoodItem, _ int) bool {
		return f.Category == cat
	}))
}

// ByTag 帶有指定標籤的餐點
func (c *Catalog) ByTag(tag string) []FoodItem {
	return cloneAll(lo.Filter(c.foods, func(f FoodItem, _ int) bool {
		return f.HasTag(tag)
	}))
}

// Filter 依分類與標籤同時篩選，空字串代表不限
func (c *Catalog) Filter(cat Category, tag string) []FoodItem {
	return cloneAll(lo.Filter(c.foods, func(f FoodItem, _ int) bool {
		return (cat == "" || f.Category == cat) && (tag == "" || f.HasTag(tag))
	}))
}

// Scenarios 所有情境
func (c *Catalog) Scenarios() []Scenario {
	return append([]Scenario(nil), c.scenarios...)
}

// Scenario 依 ID 查詢情境
func (c *Catalog) Scenario(id string) (Scenario, bool) {
	return lo.Find(c.scenarios, func(s Scenario) bool {
		return s.ID == id
	})
}

// ByScenario 情境篩選後的餐點；找不到情境時 ok 為 false
func (c *Catalog) ByScenario(id string) ([]FoodItem, bool) {
	s, ok := c.Scenario(id)
	if !ok {
		return nil, false
	}
	return c.ByTag(s.FilterTag), true
}

// FindByID 依 ID 查詢餐點
func (c *Catalog) FindByID(id string) (FoodItem, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return FoodItem{}, false
	}
	return c.foods[idx].clone(), true
}

// FindByName 依名稱對回目錄；先比對完全相同，再忽略空白比對
func (c *Catalog) FindByName(name string) (FoodItem, bool) {
	return FindByName(c.foods, name)
}

// FindByName 在指定清單中依名稱查詢餐點
func FindByName(foods []FoodItem, name string) (FoodItem, bool) {
	if f, ok := lo.Find(foods, func(f FoodItem) bool { return f.Name == name }); ok {
		return f.clone(), true
	}

	target := normalizeName(name)
	if target == "" {
		return FoodItem{}, false
	}
	f, ok := lo.Find(foods, func(f FoodItem) bool {
		return normalizeName(f.Name) == target
	})
	if !ok {
		return FoodItem{}, false
	}
	return f.clone(), true
}

// normalizeName 去除所有空白並轉小寫
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

func cloneAll(foods []FoodItem) []FoodItem {
	return lo.Map(foods, func(f FoodItem, _ int) FoodItem {
		return f.clone()
	})
}
