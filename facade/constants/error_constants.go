package constants

const FeeRetrievalErr = "fee retrieval failed"
const UnknownReservationTargetErr = "unknown hospital, doctor or category"
const UnknownAppointmentErr = "unknown appointment id"
const RequestStructErr = "bad request structure"
const RespBodyErr = "failed to read response body from %s"
const RespCodeErr = "%s %s returned status %d: %s"
