// Package tail follows a single growing text file and yields the bytes
// appended to it after it was opened.
//
// A [Tailer] seeks to the end of the file on [Open], so content that existed
// before is never returned. [Tailer.Next] hands back the next chunk: one line
// including its terminator, or whatever trailing partial line is already on
// disk. Chunks concatenate to exactly the bytes appended, in order, each byte
// once. When the file has nothing new the tailer sleeps for the poll
// interval; in watch mode an fsnotify write event cuts the sleep short.
//
//	t, err := tail.Open("system.log", tail.WithPollInterval(time.Second))
//	if err != nil {
//	    return err
//	}
//	defer t.Close()
//	return t.Run(ctx, os.Stdout)
//
// Errors carry the logtail error taxonomy for errors.Is; cancellation
// surfaces as [ErrInterrupted].
package tail
