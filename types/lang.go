package types

type Lang string

const (
	LangZh   Lang = "zh"
	LangZhTW Lang = "zh-TW"
	LangEn   Lang = "en"
)

// DefaultLang is used when the caller did not pick a language.
const DefaultLang = LangZh

func (l Lang) Valid() bool {
	switch l {
	case LangZh, LangZhTW, LangEn:
		return true
	}
	return false
}

// ParseLang maps a language tag to a supported Lang, falling back to DefaultLang.
func ParseLang(s string) Lang {
	if l := Lang(s); l.Valid() {
		return l
	}
	return DefaultLang
}

type MessageKey string

const (
	MsgNotFound   MessageKey = "not_found"
	MsgErrName    MessageKey = "err_name"
	MsgErrEmail   MessageKey = "err_email"
	MsgErrConsent MessageKey = "err_consent"
	MsgSignupOK   MessageKey = "ok"
	MsgWriteFail  MessageKey = "write_failed"
	MsgSignupNeed MessageKey = "signup_required"
)

var messages = map[Lang]map[MessageKey]string{
	LangZh: {
		MsgNotFound:   "未找到相關內容，請嘗試換個說法提問～",
		MsgErrName:    "请输入姓名",
		MsgErrEmail:   "请输入并完成表格",
		MsgErrConsent: "请勾选同意条款",
		MsgSignupOK:   "已收到，感谢！您现在可以提问啦。",
		MsgWriteFail:  "寫入失敗 / Failed to write",
		MsgSignupNeed: "请先填写基本信息",
	},
	LangZhTW: {
		MsgNotFound:   "未找到相關內容，請嘗試換個說法提問～",
		MsgErrName:    "請輸入姓名 / Please enter your name",
		MsgErrEmail:   "請輸入並完成表格",
		MsgErrConsent: "請勾選同意條款 / Please provide consent",
		MsgSignupOK:   "已收到，感謝！您現在可以提問囉。",
		MsgWriteFail:  "寫入失敗 / Failed to write",
		MsgSignupNeed: "請先填寫基本資訊",
	},
	LangEn: {
		MsgNotFound:   "No relevant answer found. Please try rephrasing your question.",
		MsgErrName:    "Please enter your name",
		MsgErrEmail:   "Please enter a valid email",
		MsgErrConsent: "Please provide consent",
		MsgSignupOK:   "Thank you! You can ask questions now.",
		MsgWriteFail:  "Failed to write",
		MsgSignupNeed: "Please fill out the basic info form first",
	},
}

// Message returns the localized text for key.
func Message(l Lang, key MessageKey) string {
	if m, ok := messages[ParseLang(string(l))]; ok {
		return m[key]
	}
	return messages[DefaultLang][key]
}
