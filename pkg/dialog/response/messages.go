package response

import (
	"fmt"

	"ai-voicebot-be/internal/constant"
)

const (
	UnsupportedContent = "🚫 فقط پیام‌های متنی و صوتی پشتیبانی می‌شوند."
	EmptyVoice         = "🚫 پیام صوتی خالی یا غیرقابل پردازش است. لطفاً یک پیام صوتی واضح ارسال کنید."
	VoiceError         = "🚫 خطا در پردازش پیام صوتی"
	VoiceTooLong       = "🚫 پیام صوتی بیش از حد طولانی است. لطفاً پیام کوتاه‌تری ارسال کنید."
	UserError          = "🚫 خطا در ثبت کاربر. لطفاً دوباره تلاش کنید."
	QuotaExceeded      = "⛔ سقف مصرف ماهانه شما پر شده است. لطفاً ماه آینده دوباره تلاش کنید یا برای مشاوره حقوقی رایگان دکمه زیر را فشار دهید."

	NewChat       = "✨ یک مکالمه جدید آغاز شد!  \nمی‌توانید پیام متنی یا صوتی ارسال کنید تا به سوالات شما پاسخ دهم، تصویر تولید کنم یا یادداشت بسازید. برای مشاوره حقوقی رایگان، دکمه زیر را فشار دهید."
	NoMessages    = "📭 پیامی نیست"
	SummaryPrompt = "متن زیر را خلاصه کن زیر ۱۵۰۰ کاراکتر فارسی:\n"

	NoteCreated    = "📝 یادداشت جدید ایجاد شد! لطفاً پیام صوتی ارسال کنید تا به متن تبدیل شود. سپس می‌توانید:  \n- ادامه دهید (ادامه یادداشت).  \n- متن را کپی کنید (کپی متن).  \n- آن را به فایل ورد تبدیل کنید (وارد کردن به ورد).  \n- یا به منوی اصلی بازگردید."
	NoteCreateFail = "🚫 خطا در ایجاد یادداشت جدید. لطفاً دوباره تلاش کنید."
	NoteSaveFail   = "🚫 خطا در ذخیره یادداشت. لطفاً دوباره تلاش کنید."
	NoActiveNote   = "🚫 هیچ یادداشت فعالی وجود ندارد. لطفاً با \"ساخت یادداشت جدید\" شروع کنید."
	ResumeNote     = "📝 لطفاً پیام صوتی جدید خود را برای افزودن به یادداشت ارسال کنید."
	EmptyNote      = "🚫 یادداشت خالی است. لطفاً ابتدا پیام صوتی ارسال کنید."
	WordCaption    = "📝 یادداشت شما در فایل ورد آماده شد!"
	WordSent       = "✅ فایل ورد با موفقیت ارسال شد! می‌توانید ادامه دهید یا به منوی اصلی بازگردید."

	ParseError      = "🚨 خطا در پردازش درخواست. لطفاً دوباره تلاش کنید."
	GenericError    = "🚨 خطایی رخ داد\nلطفاً دوباره تلاش کنید یا از دکمه‌های زیر استفاده کنید."
	AIApology       = "⚠️ خطا در دریافت پاسخ از هوش مصنوعی. لطفاً دوباره تلاش کنید یا برای مشاوره حقوقی رایگان دکمه زیر را فشار دهید."
	ImageApology    = "متأسفم، سرویس تولید تصویر به دلیل خطا در دسترس نیست. لطفاً دوباره تلاش کنید."
	UserLabel       = "کاربر"
	AssistantLabel  = "دستیار"
	NoContextMarker = "ندارد"
)

func Youtube(channelURL string) string {
	return "🌟 از ربات چت هوشمند لذت می‌برید؟ لطفاً کانال یوتیوب ما را دنبال کنید و سابسکرایب کنید تا از محتوای آموزشی و جذاب ما بهره‌مند شوید! 👇\n" + channelURL
}

// Summary wraps a digest with the header for its range.
func Summary(limit int, digest string) string {
	scope := "کل تاریخچه"
	if limit == constant.SummaryRecentLimit {
		scope = "۱۰۰ پیام اخیر"
	}
	return fmt.Sprintf("📝 خلاصه %s ایجاد شد:\n%s\nبرای ادامه، پیام متنی یا صوتی بفرستید یا از دکمه‌ها استفاده کنید.", scope, digest)
}

func NoteEcho(fullText string) string {
	return fmt.Sprintf("یادداشت شما: \"%s\"\nمی‌توانید ادامه دهید، متن را کپی کنید یا به فایل ورد تبدیل کنید.", fullText)
}

func NoteCopy(fullText string) string {
	return fmt.Sprintf("📋 متن یادداشت شما: \"%s\"\nلطفاً متن را کپی کنید یا از دکمه‌های زیر برای ادامه استفاده کنید.", fullText)
}

// VoiceFrame prefixes a reply with the transcription it answers.
func VoiceFrame(transcript, reply string) string {
	return fmt.Sprintf("این متن صدای شماست: \"%s\"\n\nو این پاسخ من است: \"%s\"", transcript, reply)
}

// Reply applies the voice framing only to voice turns.
func Reply(isVoice bool, transcript, reply string) string {
	if !isVoice {
		return reply
	}
	return VoiceFrame(transcript, reply)
}

func ImageCaption(isVoice bool, transcript, prompt string) string {
	caption := fmt.Sprintf("📷 تصویر تولید شده با پرامپت: \"%s\"", prompt)
	if isVoice {
		return fmt.Sprintf("این متن صدای شماست: \"%s\"\n%s", transcript, caption)
	}
	return caption
}

// ImageRecord is the assistant text stored for a delivered image.
func ImageRecord(prompt string) string {
	return "تصویر تولید شده با پرامپت: " + prompt
}

// RoleLabel names a stored role in rendered transcripts. Anything that is not
// the user is shown as the assistant.
func RoleLabel(role string) string {
	if role == constant.ChatMessageRoleUser {
		return UserLabel
	}
	return AssistantLabel
}
