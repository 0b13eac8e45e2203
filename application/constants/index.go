package constants

// client response codes
// these consist of 4 digit numbers
//
// the 1st 3 represent specific scenarios
// 4th indicates if the response requires user interactions through a dialog box. 0 means it does not require. 1 means it requires.

var ENROLLMENT_REQUIRED uint = 4211          // take the user to the face enrollment page
var LOCATION_PERMISSION_REQUIRED uint = 4321 // ask the user to allow location access and retry
var RECAPTURE_FACE uint = 4430               // retake the selfie, the liveness check rejected it
