package messaging

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/masaken/backoffice/internal/domain/models"
)

const (
	greeting = "السلام عليكم ورحمة الله وبركاته،"
	company  = "شركة مساكن الرفاهية للتطوير العقاري"
)

// renderTemplate interpolates one of the three fixed message kinds with the
// recipient name, unit number, and project name.
func renderTemplate(kind models.MessageKind, name string, unit models.EnrichedUnit) string {
	unitNum := unit.UnitNumber
	project := unit.ProjectName

	switch kind {
	case models.MessageDeedTransfer:
		return fmt.Sprintf("%s\n\nعزيزي العميل: %s\nنأمل منكم التكرم بزيارة مقر %s، وذلك لإتمام إجراءات إفراغ الصك الخاص بوحدتكم رقم %d في مشروع %s.\n\nشاكرين لكم حسن تعاونكم.",
			greeting, name, company, unitNum, project)
	case models.MessageResaleContract:
		return fmt.Sprintf("%s\n\nعزيزي العميل: %s\nنأمل منكم التكرم بزيارة مقر %s، وذلك لتوقيع عقد إعادة البيع الخاص بوحدتكم رقم %d في مشروع %s.\n\nشاكرين لكم حسن تعاونكم.",
			greeting, name, company, unitNum, project)
	case models.MessagePaymentReminder:
		return fmt.Sprintf("%s\n\nعزيزي العميل: %s\nنود تذكيركم بموعد سداد الدفعة المتبقية المستحقة على وحدتكم رقم %d في مشروع %s.\nنأمل منكم سرعة السداد لإتمام الإجراءات المتبقية.\n\nشاكرين لكم حسن تعاونكم مع %s.",
			greeting, name, unitNum, project, company)
	}
	return ""
}

// shareLine pairs a toggle with its renderer. The slice below is evaluated
// top to bottom; its order is the contract for the composed text.
type shareLine struct {
	field  models.ShareField
	render func(models.EnrichedUnit) (string, bool)
}

var shareLines = []shareLine{
	{models.ShareCurrentName, func(u models.EnrichedUnit) (string, bool) {
		name := currentOwnerName(u)
		return "المالك الحالي: " + name, name != ""
	}},
	{models.ShareCurrentPhone, func(u models.EnrichedUnit) (string, bool) {
		phone := currentOwnerPhone(u)
		return "جوال المالك الحالي: " + phone, phone != ""
	}},
	{models.ShareOriginalName, func(u models.EnrichedUnit) (string, bool) {
		return "العميل الأصلي: " + u.ClientName, u.ClientName != ""
	}},
	{models.ShareOriginalPhone, func(u models.EnrichedUnit) (string, bool) {
		return "جوال العميل الأصلي: " + u.ClientPhone, u.ClientPhone != ""
	}},
	{models.ShareProjectName, func(u models.EnrichedUnit) (string, bool) {
		return "المشروع: " + u.ProjectName, true
	}},
	{models.ShareProjectNumber, func(u models.EnrichedUnit) (string, bool) {
		return "رقم المشروع: " + u.ProjectNumber, true
	}},
	{models.ShareUnitNumber, func(u models.EnrichedUnit) (string, bool) {
		return "رقم الوحدة: " + strconv.Itoa(u.UnitNumber), true
	}},
	{models.ShareFloorNumber, func(u models.EnrichedUnit) (string, bool) {
		return "الدور: " + strconv.Itoa(u.FloorNumber), true
	}},
	{models.ShareDeedNumber, func(u models.EnrichedUnit) (string, bool) {
		if u.DeedNumber == nil || *u.DeedNumber == "" {
			return "", false
		}
		return "رقم الصك: " + *u.DeedNumber, true
	}},
}

// resaleLines are appended as a block, in this order, only when the unit has
// resale data and at least one resale toggle produced a line.
var resaleLines = []shareLine{
	{models.ShareResaleFee, func(u models.EnrichedUnit) (string, bool) {
		if u.ResaleFee == nil {
			return "", false
		}
		return "رسوم إعادة بيع: " + u.ResaleFee.String(), true
	}},
	{models.ShareMarketingFee, func(u models.EnrichedUnit) (string, bool) {
		if u.MarketingFee == nil {
			return "", false
		}
		return "رسوم تسويق: " + u.MarketingFee.String(), true
	}},
	{models.ShareCompanyFee, func(u models.EnrichedUnit) (string, bool) {
		if u.CompanyFee == nil {
			return "", false
		}
		return "رسوم شركة: " + u.CompanyFee.String(), true
	}},
	{models.ShareLawyerFee, func(u models.EnrichedUnit) (string, bool) {
		if u.LawyerFee == nil {
			return "", false
		}
		return "رسوم محاماة: " + u.LawyerFee.String(), true
	}},
	{models.ShareResaleAgreedAmount, func(u models.EnrichedUnit) (string, bool) {
		if u.ResaleAgreedAmount == nil {
			return "", false
		}
		return "مبلغ البيع المتفق: " + u.ResaleAgreedAmount.String(), true
	}},
	{models.ShareResaleSavedAt, func(u models.EnrichedUnit) (string, bool) {
		if u.ResaleSavedAt == nil {
			return "", false
		}
		return "تاريخ حفظ إعادة البيع: " + u.ResaleSavedAt.Format("2006-01-02 15:04"), true
	}},
}

// buildCustomMessage maps the enabled toggles to included lines in the fixed
// declared order.
func buildCustomMessage(unit models.EnrichedUnit, fields map[models.ShareField]bool) string {
	lines := []string{"تفاصيل الوحدة المختارة:"}

	for _, line := range shareLines {
		if !fields[line.field] {
			continue
		}
		if text, ok := line.render(unit); ok {
			lines = append(lines, text)
		}
	}

	if unit.HasResaleData() {
		var parts []string
		for _, line := range resaleLines {
			if !fields[line.field] {
				continue
			}
			if text, ok := line.render(unit); ok {
				parts = append(parts, text)
			}
		}
		if len(parts) > 0 {
			lines = append(lines, "بيانات إعادة البيع:")
			lines = append(lines, parts...)
			lines = append(lines, "إجمالي الرسوم: "+models.NewResaleRow(unit.Unit).Total().String())
		}
	}

	return strings.Join(lines, "\n")
}

func currentOwnerName(u models.EnrichedUnit) string {
	if u.TitleDeedOwner != nil && *u.TitleDeedOwner != "" {
		return *u.TitleDeedOwner
	}
	return u.ClientName
}

func currentOwnerPhone(u models.EnrichedUnit) string {
	if u.TitleDeedOwnerPhone != nil && *u.TitleDeedOwnerPhone != "" {
		return *u.TitleDeedOwnerPhone
	}
	return u.ClientPhone
}
