package response

// Long command replies. Trailing double spaces are Markdown line breaks.

const WelcomeText = `👋 به ربات چت هوشمند خوش آمدید!  
من می‌توانم:  
- **پاسخ به سوالات شما** با پیام‌های متنی یا صوتی (به فارسی).  
- **تولید تصاویر** بر اساس درخواست‌های شما (مثلاً "تصویر یک گربه بکش").  
- **تبدیل پیام‌های صوتی** به متن و ذخیره آن‌ها به‌عنوان یادداشت.  
- **ایجاد فایل ورد** از یادداشت‌های شما.  
- **خلاصه‌سازی گفتگوها** (۱۰۰ پیام اخیر یا کل تاریخچه).  
- دسترسی به **مشاوره حقوقی رایگان** از طریق دکمه زیر.  

**دکمه‌ها چه می‌کنند؟**  
- ✨ چت جدید: بازگشت به یک مکالمه جدید.  
- 📝 ساخت یادداشت جدید: شروع ضبط پیام‌های صوتی برای یادداشت.  
- 🔴 کانال یوتیوب: لینک به کانال یوتیوب ما.  
- 📜 خلاصه ۱۰۰ پیام: خلاصه ۱۰۰ پیام اخیر.  
- 📚 خلاصه همه پیام‌ها: خلاصه کل تاریخچه گفتگو.  
- ℹ️ راهنما: نمایش این راهنما.  
- 📝 دریافت مشاوره حقوقی رایگان: برای مشاوره حقوقی رایگان دکمه زیر را فشار دهید.  

پیام متنی یا صوتی بفرستید تا شروع کنیم!`

const HelpText = `ℹ️ **راهنمای ربات چت هوشمند**  
این ربات قابلیت‌های زیر را ارائه می‌دهد:  
- **پاسخ به سوالات**: با پیام متنی یا صوتی به سوالات شما به فارسی پاسخ می‌دهد.  
- **تولید تصویر**: با درخواست‌هایی مثل "تصویر یک منظره بکش"، تصاویر تولید می‌کند. اگر قبلاً تصویری تولید شده، می‌توانید درخواست ویرایش کنید (مثلاً "رنگ آسمان را آبی‌تر کن").  
- **یادداشت‌سازی**: پیام‌های صوتی را به متن تبدیل کرده و به‌عنوان یادداشت ذخیره می‌کند. می‌توانید یادداشت‌ها را کپی یا به فایل ورد تبدیل کنید.  
- **خلاصه‌سازی**: تاریخچه گفتگوها را خلاصه می‌کند (۱۰۰ پیام یا کل تاریخچه).  
- **مشاوره حقوقی رایگان**: از طریق دکمه زیر به ربات وکیل جیبی متصل شوید که رایگان و متن‌باز است.  

**دستورات و دکمه‌ها**:  
- /start یا "بازگشت به منوی اصلی": بازگشت به منوی اصلی.  
- /newchat یا "چت جدید": شروع مکالمه جدید.  
- /summary100 یا "خلاصه ۱۰۰ پیام": خلاصه ۱۰۰ پیام اخیر.  
- /summaryall یا "خلاصه همه پیام‌ها": خلاصه کل تاریخچه.  
- /makenote یا "ساخت یادداشت جدید": شروع یادداشت‌سازی با پیام صوتی.  
- /youtube یا "کانال یوتیوب": لینک به کانال یوتیوب.  
- "دریافت مشاوره حقوقی رایگان": برای مشاوره حقوقی رایگان دکمه زیر را فشار دهید.  

برای شروع، پیام متنی یا صوتی ارسال کنید!`
