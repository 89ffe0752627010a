/*
Package pipeline runs producer and consumer tasks against a shared
bounded queue.

Producers pull items from a Source and block in Put when the queue is
full. Consumers poll the queue with a short timeout, append to a Sink,
and terminate once the queue is shut down and drained. Each task carries
its own cooperative stop signal, independent of queue shutdown, so one
task can be stopped without disturbing others sharing the queue.

The Runner encodes the drain-safe orchestration order: start consumers,
start producers, join producers, shut the queue down, join consumers.
Shutting down before producers finish would reject their remaining
items; joining consumers before shutdown would deadlock on an idle
queue.
*/
package pipeline
