package service

// Тексты ответов пользователю в Telegram. Аудитория бота арабоязычная,
// поэтому сообщения локализованы так же, как в мини-приложении.
const (
	msgDriverPaymentRequired  = "❌ يجب دفع رسوم التسجيل وإرفاق (الاسم + رقم المرسل + صورة الإيصال)."
	msgProductPaymentRequired = "❌ يجب دفع رسوم إضافة السلعة وإرفاق (الاسم + رقم المرسل + صورة الإيصال)."
	msgPaymentDetailsRequired = "❌ يجب إدخال بيانات الدفع (الاسم + رقم المرسل + صورة الإيصال)."

	msgDriverSubmitted   = "✅ تم إرسال طلب التسجيل مع بيانات الدفع للمراجعة."
	msgProductSubmitted  = "✅ تم إضافة السلعة، بانتظار مراجعة الدفع."
	msgChargeSubmitted   = "✅ تم تسجيل طلب الشحن، بانتظار مراجعة الدفع."
	msgWithdrawSubmitted = "✅ تم إرسال طلب السحب مع بيانات الدفع للمراجعة."

	msgProcessingFailed = "⚠️ تعذّرت معالجة طلبك، يرجى المحاولة مرة أخرى."
)
