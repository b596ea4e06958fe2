// Package upload implements the image upload and diagnosis submission flow.
//
// A Flow owns one selected image at a time. Selecting a file computes a
// data-URL preview in the background; a newer selection always wins over a
// stale preview. Submit sends the selected file to the Diagnosis Service and
// either hands the resulting record to the caller (clearing the selection,
// notifying success and invalidating the cached diagnosis lists) or
// classifies the failure into a *domain.SubmissionError, notifies it and
// leaves the selection in place for a retry.
//
// State per submission:
//
//	IDLE -> SUBMITTING -> SUCCEEDED -> IDLE (selection cleared)
//	                   -> FAILED    -> IDLE (selection kept)
//
// There is no cancelled state. Submissions are bounded by a timeout instead.
// The flow does not serialise submissions; callers use InProgress to disable
// re-submission.
package upload
