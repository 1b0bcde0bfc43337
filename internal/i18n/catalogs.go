package i18n

var english = Catalog{
	MsgInvalidRequest:      "The request could not be read.",
	MsgUnauthorized:        "Please sign in to continue.",
	MsgForbidden:           "You do not have access to this resource.",
	MsgNotFound:            "We could not find what you were looking for.",
	MsgValidationFailed:    "Some of the details you entered are not valid.",
	MsgInvalidTransition:   "This action is not allowed in the current state.",
	MsgUnsupportedCurrency: "This currency is not supported.",
	MsgUpstreamFailure:     "A service we depend on failed. Please try again.",
	MsgInternalError:       "Something went wrong on our side.",
	MsgOrderCreated:        "Your order has been placed.",
	MsgReceiptSubmitted:    "Your payment receipt has been submitted for review.",
	MsgPaymentVerified:     "Payment verified.",
	MsgPaymentRejected:     "Payment rejected.",
	MsgStatusUpdated:       "Order status updated.",
	MsgDiscountApplied:     "Discount applied.",
	MsgDiscountRemoved:     "Discount removed.",
	MsgDiscountsReset:      "Discounts reset.",
	MsgProductSaved:        "Product saved.",
	MsgProductDeleted:      "Product deleted.",
	MsgFeaturedUpdated:     "Featured products updated.",
	MsgFileUploaded:        "File uploaded.",
	MsgTooManyRequests:     "Too many requests. Please slow down.",
}

var urdu = Catalog{
	MsgInvalidRequest:      "درخواست پڑھی نہیں جا سکی۔",
	MsgUnauthorized:        "جاری رکھنے کے لیے سائن ان کریں۔",
	MsgForbidden:           "آپ کو اس تک رسائی حاصل نہیں ہے۔",
	MsgNotFound:            "مطلوبہ چیز نہیں ملی۔",
	MsgValidationFailed:    "درج کی گئی کچھ معلومات درست نہیں ہیں۔",
	MsgInvalidTransition:   "موجودہ حالت میں یہ عمل ممکن نہیں ہے۔",
	MsgUnsupportedCurrency: "یہ کرنسی دستیاب نہیں ہے۔",
	MsgUpstreamFailure:     "ایک بیرونی سروس ناکام ہو گئی۔ دوبارہ کوشش کریں۔",
	MsgInternalError:       "ہماری طرف سے کوئی خرابی ہوئی ہے۔",
	MsgOrderCreated:        "آپ کا آرڈر موصول ہو گیا ہے۔",
	MsgReceiptSubmitted:    "آپ کی ادائیگی کی رسید جانچ کے لیے بھیج دی گئی ہے۔",
	MsgPaymentVerified:     "ادائیگی کی تصدیق ہو گئی۔",
	MsgPaymentRejected:     "ادائیگی مسترد کر دی گئی۔",
	MsgStatusUpdated:       "آرڈر کی حالت اپ ڈیٹ ہو گئی۔",
	MsgDiscountApplied:     "رعایت لاگو ہو گئی۔",
	MsgDiscountRemoved:     "رعایت ختم کر دی گئی۔",
	MsgDiscountsReset:      "تمام رعایتیں ختم کر دی گئیں۔",
	MsgProductSaved:        "پروڈکٹ محفوظ ہو گئی۔",
	MsgProductDeleted:      "پروڈکٹ حذف ہو گئی۔",
	MsgFeaturedUpdated:     "نمایاں پروڈکٹس اپ ڈیٹ ہو گئیں۔",
	MsgFileUploaded:        "فائل اپ لوڈ ہو گئی۔",
	MsgTooManyRequests:     "بہت زیادہ درخواستیں۔ براہ کرم تھوڑا انتظار کریں۔",
}
