// Package gallery browses a folder of still and animated images as a
// linear, naturally ordered sequence with a bounded read-ahead cache.
//
// # Model
//
// A Session holds one opened folder: the eligible files sorted by natural
// key (img2 before img10) and the current position. Every successful move
// returns a Handle for the current entry. The handle is a memoized decode:
// it is started at most once, shared by every reader, and never cancelled.
//
// # Prefetch window
//
// After each move the session keeps the entries [current, current+WindowSize)
// decoding or decoded:
//
//	entries:  a  b  c  [d  e  f]  g  h
//	                    ^current
//	                    window = 3
//
//  1. Entries behind current are dropped (going back decodes again)
//  2. Missing window entries start decoding in the background
//  3. Entries past the window are dropped from the tail
//
// Dropping an entry never waits for its decode. A Handle obtained earlier
// keeps working after its entry left the cache.
//
// # Opening a folder
//
// Open runs in two phases. It first narrows the window to the current entry
// and blocks until that entry is decoded, so the first image is ready when
// Open returns. It then widens the window and returns without waiting for
// the read-ahead.
//
// # Basic Usage
//
//	s := gallery.New(gallery.Config{WindowSize: 5})
//	defer s.Close()
//
//	h, err := s.Open(ctx, "/photos/2024", "")
//	if err != nil {
//	    return err
//	}
//	for {
//	    img, err := h.Wait(ctx)
//	    if err != nil {
//	        log.Printf("cannot show %s: %v", h.Entry.Name, err)
//	    } else {
//	        render(img)
//	    }
//	    if h, err = s.Next(); errors.Is(err, gallery.ErrNothingToShow) {
//	        break
//	    }
//	}
//
// # Errors
//
//   - ErrNothingToShow: navigation boundary, empty folder
//   - *FolderError: the folder could not be listed
//   - decode failures are carried by the Handle, not returned by navigation
//   - ErrNothingToResume: Resume found no usable bookmark
//   - ErrClosed: any operation after Close
//
// # Concurrency
//
// Open and navigation are serialised by one lock. Decodes run on a pool of
// DecodeWorkers goroutines, concurrently with each other and with playback
// of an already decoded image. No queue limit applies; the window size
// bounds outstanding work.
package gallery
