package constants

// User-facing messages. Clients render these verbatim.
const (
	MsgInvalidBody     = "درخواست نامعتبر است"
	MsgInternalError   = "خطای داخلی سرور"
	MsgUnauthorized    = "توکن احراز هویت یافت نشد"
	MsgInvalidAuth     = "توکن نامعتبر است"
	MsgUserNotFound    = "کاربر یافت نشد"
	MsgScrapeForbidden = "دسترسی غیرمجاز"

	MsgListingNotFound    = "کسب‌وکار یافت نشد"
	MsgAlreadyClaimed     = "این کسب‌وکار قبلا ثبت شده است"
	MsgListingHasNoPhone  = "این کسب‌وکار شماره تلفن ندارد و امکان تایید مالکیت وجود ندارد"
	MsgListingForbidden   = "شما اجازه ویرایش این کسب‌وکار را ندارید"
	MsgDeleteForbidden    = "شما اجازه حذف این کسب‌وکار را ندارید"
	MsgListingDeleted     = "کسب‌وکار با موفقیت حذف شد"
	MsgListingRequired    = "لطفا فیلدهای الزامی را پر کنید (تلفن الزامی است)"
	MsgInvalidCategory    = "دسته‌بندی نامعتبر است"
	MsgListingClaimed     = "مالکیت کسب‌وکار با موفقیت ثبت شد"
	MsgListingUpdated     = "کسب‌وکار با موفقیت ویرایش شد"
	MsgListingCreated     = "کسب‌وکار با موفقیت ایجاد شد"
	MsgListingsFetched    = "کسب‌وکارها دریافت شدند"
	MsgSlugConflict       = "امکان ساخت آدرس یکتا برای این کسب‌وکار وجود ندارد"
	MsgPhoneHint          = "شماره تلفن کسب‌وکار"
	MsgClaimFailed        = "خطا در ثبت مالکیت کسب‌وکار"
	MsgUpdateFailed       = "خطا در ویرایش کسب‌وکار"
	MsgCreateFailed       = "خطا در ایجاد کسب‌وکار"
	MsgDeleteFailed       = "خطا در حذف کسب‌وکار"
	MsgPhoneHintFailed    = "خطا در دریافت اطلاعات"
	MsgListingFetchFailed = "خطا در دریافت کسب‌وکار"

	MsgPhoneRequired       = "شماره تلفن الزامی است"
	MsgInvalidPhone        = "شماره تلفن باید با + شروع شود و فرمت بین‌المللی داشته باشد"
	MsgInvalidChannel      = "روش ارسال نامعتبر است"
	MsgTooManyRequests     = "تعداد درخواست‌ها بیش از حد مجاز است. لطفا ۱۰ دقیقه صبر کنید"
	MsgPhoneMismatch       = "شماره تلفن وارد شده با شماره کسب‌وکار مطابقت ندارد"
	MsgCodeSent            = "کد تایید ارسال شد"
	MsgSendFailed          = "خطا در ارسال کد تایید"
	MsgCodeRequired        = "شماره تلفن و کد تایید الزامی است"
	MsgCodeExpired         = "کد تایید منقضی شده یا یافت نشد. لطفا دوباره درخواست کنید"
	MsgTooManyAttempts     = "تعداد تلاش‌ها بیش از حد مجاز است. لطفا کد جدید درخواست کنید"
	MsgWrongCode           = "کد تایید اشتباه است"
	MsgCodeVerified        = "شماره تلفن تایید شد"
	MsgConfirmFailed       = "خطا در تایید کد"
	MsgTokenRequired       = "تایید شماره تلفن الزامی است"
	MsgTokenInvalid        = "توکن تایید منقضی شده یا نامعتبر است"
	MsgTokenForbidden      = "توکن تایید نامعتبر است"
	MsgVerifiedPhoneDiffer = "شماره تلفن تایید شده با شماره کسب‌وکار مطابقت ندارد"
	MsgNotVerified         = "تایید تلفن انجام نشده است"
	MsgTokenListing        = "این تایید برای کسب‌وکار دیگری انجام شده است"
	MsgTokenConsumed       = "این تایید قبلا استفاده شده است. لطفا دوباره تایید کنید"

	MsgScrapeStarted    = "عملیات جمع‌آوری آغاز شد"
	MsgJobNotFound      = "کار مورد نظر یافت نشد"
	MsgJobFound         = "وضعیت کار"
	MsgUnknownCity      = "شهر مورد نظر یافت نشد"
	MsgPhonesFixed      = "اصلاح شماره‌ها انجام شد"
	MsgScrapeStats      = "آمار جمع‌آوری"
	MsgCategoriesListed = "دسته‌بندی‌ها"
)
