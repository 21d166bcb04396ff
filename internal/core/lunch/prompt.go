package lunch

import (
	"fmt"
	"strings"

	"lunch-mate/internal/pkg/common"
)

// QuotePrompt 午餐名言的提示詞
const QuotePrompt = "請用繁體中文（zh-TW）給我一句非常簡短、好笑、只有一句話的名言，主題是午餐或肚子餓。只回傳這句話本身。"

// BuildRecommendationPrompt 組裝推薦提示詞，餐點名稱保持目錄順序
func BuildRecommendationPrompt(names []string, preference string) string {
	preference = strings.TrimSpace(preference)
	if preference == "" {
		preference = DefaultPreference
	}

	return fmt.Sprintf(`你是一位熱心的台灣美食專家，正在幫使用者決定午餐要吃什麼。

可以選擇的餐點：%s

使用者現在的心情或偏好："%s"

要求：
1. 從清單中挑出「一個」最適合的選項（如果沒有完全符合的，可以選一個與清單相近的類型）
2. 用有趣、讓人食指大動的語氣說明理由，最多兩句話
3. 附上一個最能代表這道餐點的 emoji
4. 請用繁體中文（zh-TW）回答
5. 只回傳 JSON，欄位為 foodName、reason、foodEmoji`,
		common.StringSliceToString(names),
		preference,
	)
}
