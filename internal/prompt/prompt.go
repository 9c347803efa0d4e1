// Package prompt builds the instruction strings sent to the completion
// endpoint. Each builder is a pure templating function; the wording is
// product content, not logic.
package prompt

import (
	"fmt"

	"github.com/ktsuchiya/globalmatch-api/internal/models"
)

const fullAnonymizationInstruction = `【完全匿名化処理 - 必須】
以下の情報を必ず匿名化してください：

■ 個人情報 → イニシャル表記
- 氏名 → イニシャルに変換（例：田中太郎 → T.T.、John Smith → J.S.）
- メールアドレス → 記載しない
- 電話番号 → 記載しない
- 住所 → 都道府県名のみ（例：「東京都」）
- LinkedIn、GitHub、Portfolio、SNSのURL → 記載しない

■ 企業情報 → 業界・規模で表現
- 具体的な企業名 → 業界+規模に変換（例：「Google」→「米国大手テック企業」）
- スタートアップ → 「〇〇領域スタートアップ」
- 外資系 → 「外資系〇〇企業」

■ プロジェクト情報 → 汎用化
- 具体的なプロダクト名 → 「大規模ECサイト」「FinTechアプリ」など汎用表現に
- クライアント名 → 「大手小売業クライアント」など業界で表現
- 特定可能なプロジェクトコード → 削除

■ その他
- 大学名 → 「国内有名私立大学」「海外工科大学」など
- 資格の発行番号 → 削除（資格名は残す）`

const lightAnonymizationInstruction = `【軽度匿名化処理 - 必須】
以下の個人情報のみ匿名化してください（企業名は残す）：

- 氏名 → イニシャルに変換（例：田中太郎 → T.T.、John Smith → J.S.）
- メールアドレス → 記載しない
- 電話番号 → 記載しない
- 詳細住所 → 都道府県名まで残す
- LinkedIn、GitHub、SNSのURL → 記載しない

※ 企業名、大学名、プロジェクト名はそのまま残してください。`

const noAnonymizationInstruction = `【匿名化処理】不要です。すべての情報をそのまま残してください。`

func anonymizationInstruction(level models.AnonymizationLevel) string {
	switch level {
	case models.AnonymizeFull:
		return fullAnonymizationInstruction
	case models.AnonymizeLight:
		return lightAnonymizationInstruction
	default:
		return noAnonymizationInstruction
	}
}

// ResumeOptimization builds the prompt converting an English resume into
// the standard Japanese recruiting format.
func ResumeOptimization(resumeText string, level models.AnonymizationLevel) string {
	basicInfo := "- 氏名：\n- 連絡先：\n- 所在地："
	if level == models.AnonymizeFull || level == models.AnonymizeLight {
		basicInfo = "- 氏名：（イニシャルで表記。例：T.Y.）\n- 連絡先：[非公開]\n- 所在地：（都道府県のみ）"
	}

	return fmt.Sprintf(`あなたは人材紹介会社のエキスパートコンサルタントです。
外国人エンジニアの英語レジュメを、日本企業の採用担当者向けに最適化された日本語ドキュメントに変換してください。

%s

【出力フォーマット - 厳守】
以下の「日本企業向け標準フォーマット」に必ず従って出力してください。
元のレジュメのフォーマットに関わらず、この構造で統一してください。

---

## 1. 基本情報
%s

## 2. 推薦サマリ
*（300文字程度で、この候補者の経歴の要約と強みを記載）*

## 3. 技術スタック
| カテゴリ | スキル |
|---------|--------|
| プログラミング言語 | |
| フレームワーク | |
| データベース | |
| インフラ/クラウド | |
| ツール/その他 | |

## 4. 語学・ビザ
- **日本語レベル**: （JLPTレベル、日本滞在歴、実務での使用経験から推定）
- **英語レベル**:
- **ビザステータス**: （記載があれば、なければ「要確認」）

## 5. 職務経歴
*（新しい順に記載）*

### 【会社名】（期間：YYYY年MM月 〜 YYYY年MM月）
**役職/ポジション**

**担当業務・成果:**
- （具体的な成果を箇条書きで）
- （数値があれば積極的に記載）

---

【入力レジュメ】
%s

上記のレジュメを解析し、指定フォーマットで日本語に変換してください。
不明な項目は「記載なし」または「要確認」としてください。
`, anonymizationInstruction(level), basicInfo, resumeText)
}

// JobPostingTransformation builds the prompt converting a Japanese job
// posting into an English JD aimed at international engineers.
func JobPostingTransformation(jdText string) string {
	return fmt.Sprintf(`あなたは外国人エンジニア採用に精通したリクルーターです。
日本企業の求人票（JD）を、海外のエンジニアにとって魅力的な英語の求人票に変換してください。

【変換のポイント】
1. **構成の再構築**: 外国人エンジニアが重視する項目を冒頭に配置
2. **トーンの調整**: 堅苦しい日本語表現を避け、魅力的で親しみやすい英語に
3. **重要情報の明確化**: ビザ、リモートワーク、言語サポートを明示

【出力フォーマット】
以下の構造で出力してください：

---

# [Position Title] at [Company Name]

## 🎯 Quick Facts
| | |
|---|---|
| **Visa Sponsorship** | (Yes/No/Available for qualified candidates) |
| **Remote Work** | (Full Remote/Hybrid/On-site - specify policy) |
| **Language Requirements** | (English OK/Japanese N2+/Bilingual environment) |
| **Salary Range** | (If available, convert to USD range as reference) |
| **Location** | |

## 💡 Why Join Us?
*(2-3 compelling sentences about the company culture or growth opportunity)*

## 🚀 What You'll Do
*(Key responsibilities in bullet points - focus on impact, not just tasks)*

## ✅ What We're Looking For
**Must-have:**
-

**Nice-to-have:**
-

## 🎁 Benefits & Perks
*(Highlight benefits that appeal to international candidates)*

## 📝 About the Company
*(Brief company introduction)*

## 📧 How to Apply
*(Application process)*

---

【元の求人票】
%s

上記を解析し、外国人エンジニアに魅力的な英語JDに変換してください。
不明な項目は「To be discussed」または「Contact for details」としてください。
ビザサポートが明記されていない場合は「Please inquire」と記載してください。
`, jdText)
}

// MatchAnalysis builds the prompt comparing a candidate resume against a
// job posting and scoring the fit.
func MatchAnalysis(resumeText, jdText string) string {
	return fmt.Sprintf(`あなたは外国人エンジニアと日本企業のマッチングに精通したキャリアアドバイザーです。
以下のレジュメと求人票を比較し、マッチ度を分析してください。

【出力フォーマット】

## 📊 マッチスコア
**総合: XX / 100**

| 観点 | スコア | 評価 |
|------|--------|------|
| 技術スキル | XX/40 | |
| 経験年数・レベル | XX/20 | |
| 言語要件 | XX/20 | |
| その他条件 | XX/20 | |

## ✅ 合致しているポイント
- （具体的に箇条書き）

## ⚠️ ギャップ・懸念点
- （具体的に箇条書き）

## 💬 推薦コメント案
*（人材紹介担当者が企業に送る推薦文の下書き、200文字程度）*

---

【候補者レジュメ】
%s

---

【求人票】
%s

上記を分析し、指定フォーマットで出力してください。
判断材料が不足している項目は「要確認」としてください。
`, resumeText, jdText)
}
