// Package trampoline invokes C function pointers received as opaque handles.
//
// There is one entry point per telemetry category. Each one reinterprets the
// pointer as a function of the category's C signature and calls it on the
// calling thread with the arguments unchanged:
//
//	linkstats: void (*)(int32_t rssi1, int32_t rssi2, uint32_t lq, int32_t snr)
//	battery:   void (*)(float voltage, float current, float remaining)
//	gps:       void (*)(float lat, float lon, int32_t alt, uint32_t sats, float speed)
//	attitude:  void (*)(float pitch, float roll, float yaw)
//
// The pointer is borrowed. The package never stores or frees it, and the
// caller keeps the callable alive for at least the duration of the call.
//
// LinkStats, Battery, GPS and Attitude are unchecked: a nil pointer or one of
// the wrong signature is undefined behaviour. Handle carries a category tag and
// checks it, plus nil, before making the same call.
package trampoline
