// Package integrationtests exercises a complete pipecanvas server over HTTP
// and socket.io.
package integrationtests
