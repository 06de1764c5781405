package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/sentra-hr/attendance-backend-go/internal/domain/notification"
)

// notices carries the default message together with its translations.
type notices struct {
	Message      string
	Translations map[notification.Locale]string
}

func validatedMessages(date time.Time) notices {
	d := date.Format("2006-01-02")
	return notices{
		Message: fmt.Sprintf("Your attendance for the date %s is validated", d),
		Translations: map[notification.Locale]string{
			notification.LocaleAR: fmt.Sprintf("تم تحقيق حضورك في تاريخ %s", d),
			notification.LocaleDE: fmt.Sprintf("Deine Anwesenheit für das Datum %s ist bestätigt.", d),
			notification.LocaleES: fmt.Sprintf("Se valida tu asistencia para la fecha %s.", d),
			notification.LocaleFR: fmt.Sprintf("Votre présence pour la date %s est validée.", d),
		},
	}
}

func overtimeApprovedMessages(date time.Time) notices {
	d := date.Format("2006-01-02")
	return notices{
		Message: fmt.Sprintf("Your %s's attendance overtime approved.", d),
		Translations: map[notification.Locale]string{
			notification.LocaleAR: fmt.Sprintf("تمت الموافقة على إضافة ساعات العمل الإضافية لتاريخ %s.", d),
			notification.LocaleDE: fmt.Sprintf("Die Überstunden für den %s wurden genehmigt.", d),
			notification.LocaleES: fmt.Sprintf("Se ha aprobado el tiempo extra de asistencia para el %s.", d),
			notification.LocaleFR: fmt.Sprintf("Les heures supplémentaires pour la date %s ont été approuvées.", d),
		},
	}
}

func requestApprovedMessages(date time.Time) notices {
	d := date.Format("2006-01-02")
	return notices{
		Message: fmt.Sprintf("Your attendance request for %s has been approved", d),
		Translations: map[notification.Locale]string{
			notification.LocaleAR: fmt.Sprintf("تمت الموافقة على طلب الحضور الخاص بك لتاريخ %s", d),
			notification.LocaleDE: fmt.Sprintf("Dein Anwesenheitsantrag für den %s wurde genehmigt", d),
			notification.LocaleES: fmt.Sprintf("Tu solicitud de asistencia para el %s ha sido aprobada", d),
			notification.LocaleFR: fmt.Sprintf("Votre demande de présence pour le %s a été approuvée", d),
		},
	}
}

func requestCancelledMessages(date time.Time) notices {
	d := date.Format("2006-01-02")
	return notices{
		Message: fmt.Sprintf("Your attendance request for %s has been cancelled", d),
		Translations: map[notification.Locale]string{
			notification.LocaleAR: fmt.Sprintf("تم إلغاء طلب الحضور الخاص بك لتاريخ %s", d),
			notification.LocaleDE: fmt.Sprintf("Dein Anwesenheitsantrag für den %s wurde storniert", d),
			notification.LocaleES: fmt.Sprintf("Tu solicitud de asistencia para el %s ha sido cancelada", d),
			notification.LocaleFR: fmt.Sprintf("Votre demande de présence pour le %s a été annulée", d),
		},
	}
}

// notifyEmployee delivers a notice about an attendance to its owner.
// Delivery is best effort and never fails the calling operation.
func (s *AttendanceServiceImpl) notifyEmployee(ctx context.Context, att attendance.Attendance, kind notification.NotificationType, msg notices) {
	if s.NotificationService == nil {
		return
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		slog.Warn("skipping attendance notification, no actor in context", "error", err)
		return
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, att.EmployeeID, att.CompanyID)
	if err != nil || emp.UserID == nil {
		slog.Warn("skipping attendance notification, recipient unavailable",
			"attendance_id", att.ID, "employee_id", att.EmployeeID, "error", err)
		return
	}

	sender := act.UserID
	s.NotificationService.Notify(ctx, notification.Notice{
		CompanyID:    att.CompanyID,
		RecipientID:  *emp.UserID,
		SenderID:     &sender,
		Type:         kind,
		Message:      msg.Message,
		Translations: msg.Translations,
		Redirect:     "/attendance/" + att.ID,
		EmailTo:      emp.Email,
	})
}
