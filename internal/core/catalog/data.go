package catalog

// defaultFoods 預設的午餐目錄
var defaultFoods = []FoodItem{
	// 便當
	{ID: "1", Name: "雞腿便當", Category: CategoryBento, Emoji: "🍗", Tags: []string{"經典", "飽足"}},
	{ID: "2", Name: "排骨飯", Category: CategoryBento, Emoji: "🍱", Tags: []string{"經典", "炸物"}},
	{ID: "3", Name: "燒臘三寶飯", Category: CategoryBento, Emoji: "🦆", Tags: []string{"港式", "肉多"}},
	{ID: "4", Name: "控肉飯", Category: CategoryBento, Emoji: "🥓", Tags: []string{"傳統", "肥美"}},

	// 麵食
	{ID: "5", Name: "牛肉麵", Category: CategoryNoodles, Emoji: "🍜", Tags: []string{"湯頭", "經典"}},
	{ID: "6", Name: "水餃", Category: CategoryNoodles, Emoji: "🥟", Tags: []string{"方便", "麵食"}},
	{ID: "7", Name: "麻醬麵", Category: CategoryNoodles, Emoji: "🥢", Tags: []string{"乾麵", "傳統"}},
	{ID: "8", Name: "鍋燒意麵", Category: CategoryNoodles, Emoji: "🍲", Tags: []string{"熱湯", "豐富"}},

	// 西式
	{ID: "9", Name: "麥當勞", Category: CategoryWestern, Emoji: "🍔", Tags: []string{"速食", "快樂"}},
	{ID: "10", Name: "義大利麵", Category: CategoryWestern, Emoji: "🍝", Tags: []string{"洋食", "約會"}},
	{ID: "11", Name: "Subway", Category: CategoryWestern, Emoji: "🥪", Tags: []string{"輕食", "蔬菜"}},

	// 日式
	{ID: "12", Name: "壽司", Category: CategoryJapanese, Emoji: "🍣", Tags: []string{"冷食", "精緻"}},
	{ID: "13", Name: "丼飯 (牛/豬)", Category: CategoryJapanese, Emoji: "🍚", Tags: []string{"飽足", "快速"}},
	{ID: "14", Name: "拉麵", Category: CategoryJapanese, Emoji: "🍜", Tags: []string{"熱湯", "日式"}},

	// 泰式
	{ID: "15", Name: "打拋豬肉飯", Category: CategoryThai, Emoji: "🌶️", Tags: []string{"下飯", "微辣"}},
	{ID: "16", Name: "椒麻雞", Category: CategoryThai, Emoji: "🍗", Tags: []string{"炸物", "酸辣"}},

	// 健康
	{ID: "17", Name: "健康餐盒", Category: CategoryHealthy, Emoji: "🥗", Tags: []string{"低卡", "增肌"}},
	{ID: "18", Name: "沙拉", Category: CategoryHealthy, Emoji: "🥬", Tags: []string{"清爽", "減脂"}},
}

var defaultScenarios = []Scenario{
	{ID: "classic", Name: "經典不踩雷", Description: "想吃熟悉的味道", FilterTag: "經典"},
	{ID: "soup", Name: "想喝熱湯", Description: "天冷或想暖胃的時候", FilterTag: "熱湯"},
	{ID: "fried", Name: "炸物救贖", Description: "今天就是要罪惡一下", FilterTag: "炸物"},
	{ID: "full", Name: "餓到不行", Description: "下午還要拚，先吃飽再說", FilterTag: "飽足"},
	{ID: "light", Name: "清爽無負擔", Description: "吃完不想昏昏欲睡", FilterTag: "清爽"},
	{ID: "traditional", Name: "古早味", Description: "巷口老店的味道", FilterTag: "傳統"},
}
