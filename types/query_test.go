package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSignup() SignupParams {
	return SignupParams{
		Lang:      "en",
		FirstName: " Zach ",
		LastName:  "Wei",
		Program:   "Master of Divinity (MDiv)",
		Email:     "zach@example.com",
		Consent:   true,
	}
}

func TestSignupValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *SignupParams)
		wantKey string
		wantMsg string
	}{
		{name: "valid", mutate: func(p *SignupParams) {}},
		{
			name:    "empty first name",
			mutate:  func(p *SignupParams) { p.FirstName = "" },
			wantKey: "name",
			wantMsg: "Please enter your name",
		},
		{
			name:    "blank last name",
			mutate:  func(p *SignupParams) { p.LastName = "   " },
			wantKey: "name",
			wantMsg: "Please enter your name",
		},
		{
			name:    "email without at",
			mutate:  func(p *SignupParams) { p.Email = "zach.example.com" },
			wantKey: "email",
			wantMsg: "Please enter a valid email",
		},
		{
			name:    "email without domain dot",
			mutate:  func(p *SignupParams) { p.Email = "zach@example" },
			wantKey: "email",
			wantMsg: "Please enter a valid email",
		},
		{
			name:    "no consent",
			mutate:  func(p *SignupParams) { p.Consent = false },
			wantKey: "consent",
			wantMsg: "Please provide consent",
		},
		{
			name: "name checked before email",
			mutate: func(p *SignupParams) {
				p.FirstName = ""
				p.Email = "bad"
				p.Consent = false
			},
			wantKey: "name",
			wantMsg: "Please enter your name",
		},
		{
			name: "localized message",
			mutate: func(p *SignupParams) {
				p.Lang = "zh"
				p.Consent = false
			},
			wantKey: "consent",
			wantMsg: "请勾选同意条款",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validSignup()
			tt.mutate(&p)
			errs := Validate(&p)
			if tt.wantKey == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantMsg, errs[tt.wantKey])
		})
	}
}

func TestSignupLeadRow(t *testing.T) {
	p := validSignup()
	p.PhoneOrWeixin = " weixin-id "
	require.Empty(t, Validate(&p))

	ts := time.Date(2025, 9, 1, 8, 30, 0, 0, time.FixedZone("PDT", -7*3600))
	row := p.Lead(ts).Row()

	assert.Len(t, row, len(SignupHeader))
	assert.Equal(t, []string{
		"2025-09-01T15:30:00Z", "en", "Zach", "Wei", "Master of Divinity (MDiv)",
		"zach@example.com", "weixin-id", "yes",
	}, row)
}

func TestAskValidate(t *testing.T) {
	p := AskParams{Question: "  "}
	errs := Validate(&p)
	assert.Contains(t, errs, "Question")

	p = AskParams{Question: " Application fee? "}
	assert.Empty(t, Validate(&p))
	assert.Equal(t, "Application fee?", p.Question)
}

func TestRecordText(t *testing.T) {
	rec := QARecord{Question: "Application fee?", Answer: "$50"}
	assert.Equal(t, "Application fee? $50", rec.Text())
	assert.Equal(t, "Application fee? $50", NewDocument(0, rec).Content)
}

func TestParseLang(t *testing.T) {
	assert.Equal(t, LangZhTW, ParseLang("zh-TW"))
	assert.Equal(t, LangEn, ParseLang("en"))
	assert.Equal(t, DefaultLang, ParseLang("fr"))
	assert.Equal(t, DefaultLang, ParseLang(""))
	assert.Equal(t, "No relevant answer found. Please try rephrasing your question.", Message(LangEn, MsgNotFound))
	assert.Equal(t, Message(DefaultLang, MsgNotFound), Message("xx", MsgNotFound))
}
