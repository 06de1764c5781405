package user

// Capability names a single permitted action. Mutating attendance
// operations check capabilities before touching any state.
type Capability string

const (
	// Attendance
	CapabilityAttendanceView   Capability = "attendance.view_attendance"
	CapabilityAttendanceAdd    Capability = "attendance.add_attendance"
	CapabilityAttendanceChange Capability = "attendance.change_attendance"
	CapabilityAttendanceDelete Capability = "attendance.delete_attendance"

	// Overtime accounts
	CapabilityOvertimeView Capability = "attendance.view_attendanceovertime"

	// Reimbursement
	CapabilityReimbursementAdd     Capability = "payroll.add_reimbursement"
	CapabilityReimbursementApprove Capability = "payroll.change_reimbursement"
)

// RoleCapabilities maps roles to their capabilities
var RoleCapabilities = map[Role][]Capability{
	RoleAdmin: {
		CapabilityAttendanceView,
		CapabilityAttendanceAdd,
		CapabilityAttendanceChange,
		CapabilityAttendanceDelete,
		CapabilityOvertimeView,
		CapabilityReimbursementAdd,
		CapabilityReimbursementApprove,
	},
	RoleManager: {
		CapabilityAttendanceView,
		CapabilityAttendanceAdd,
		CapabilityAttendanceChange,
		CapabilityOvertimeView,
		CapabilityReimbursementAdd,
		CapabilityReimbursementApprove,
	},
	RoleEmployee: {
		CapabilityReimbursementAdd,
	},
}

// HasCapability reports whether the role grants the capability.
func HasCapability(role Role, capability Capability) bool {
	for _, c := range RoleCapabilities[role] {
		if c == capability {
			return true
		}
	}
	return false
}
